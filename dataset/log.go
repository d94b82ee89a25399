package dataset

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("codegram.dataset")
