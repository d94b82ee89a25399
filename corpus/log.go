package corpus

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("codegram.corpus")
