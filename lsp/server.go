// Package lsp serves next-token completions from an n-gram model over the
// Language Server Protocol.
package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/codegram/java/lexer"
	"github.com/dhamidi/codegram/ngram"
)

const lsName = "codegram"

type Server struct {
	workspace *Workspace
	completer *Completer
	handler   protocol.Handler
	server    *server.Server
	version   string
}

func NewServer(completer *Completer, version string) *Server {
	ls := &Server{
		workspace: NewWorkspace(),
		completer: completer,
		version:   version,
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentCompletion: ls.textDocumentCompletion,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{".", "(", " "},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if m := ls.completer.Model(); m != nil {
		log.Infof("serving %d-gram model with %d contexts", m.N(), len(m.Contexts()))
	}
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.workspace.UpdateFile(path, []byte(params.TextDocument.Text))
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.workspace.UpdateFile(path, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.workspace.RemoveFile(path)
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.workspace.UpdateFile(path, []byte(*params.Text))
	}
	return nil
}

func (ls *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	doc := ls.workspace.GetFile(path)
	if doc == nil {
		return nil, nil
	}

	preds := ls.completer.Complete(doc.Content, int(params.Position.Line), int(params.Position.Character))
	if len(preds) == 0 {
		return nil, nil
	}
	return completionItems(preds), nil
}

// completionItems ranks predictions in order; SortText keeps that order in
// clients that sort alphabetically.
func completionItems(preds []ngram.Prediction) []protocol.CompletionItem {
	items := make([]protocol.CompletionItem, 0, len(preds))
	for i, p := range preds {
		kind := completionKind(p.Token)
		detail := fmt.Sprintf("p=%.4f", p.Probability)
		sortText := fmt.Sprintf("%04d", i)
		insertText := p.Token

		items = append(items, protocol.CompletionItem{
			Label:      p.Token,
			Kind:       &kind,
			Detail:     &detail,
			SortText:   &sortText,
			InsertText: &insertText,
		})
	}
	return items
}

func completionKind(token string) protocol.CompletionItemKind {
	switch {
	case lexer.IsKeyword(token):
		return protocol.CompletionItemKindKeyword
	case token == lexer.StringPlaceholder || token == lexer.NumberPlaceholder:
		return protocol.CompletionItemKindValue
	case isIdentifier(token):
		return protocol.CompletionItemKindVariable
	default:
		return protocol.CompletionItemKindOperator
	}
}

func isIdentifier(token string) bool {
	toks := lexer.Tokenize([]byte(token))
	return len(toks) == 1 && toks[0].Kind == lexer.TokenIdent
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
