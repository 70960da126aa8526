package main

import (
	"github.com/gigurra/financial-profile/internal"
	"github.com/gigurra/financial-profile/internal/logger"
)

var refreshMessages = []struct {
	flag internal.Flags
	msg  string
}{
	{internal.FlagAssetsDirty, "assets updated"},
	{internal.FlagLiabilitiesDirty, "liabilities updated"},
	{internal.FlagExpensesDirty, "expenses updated"},
	{internal.FlagIncomeDirty, "income updated"},
}

// refreshLogger reports every non-empty refresh to log
func refreshLogger(log *logger.Logger) internal.Listener {
	return internal.ListenerFunc(func(p *internal.Profile, changed internal.Flags) {
		if changed == 0 {
			return
		}
		for _, m := range refreshMessages {
			if changed.Has(m.flag) {
				log.Debug(m.msg)
			}
		}
		log.Info("profile refreshed",
			"changed", changed.String(),
			"net_worth", p.NetWorth(),
			"disposable_income", p.DisposableIncome())
	})
}
