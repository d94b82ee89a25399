package lsp

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("codegram.lsp")
