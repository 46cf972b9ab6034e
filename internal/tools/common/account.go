package common

import "github.com/teemow/timewise/internal/server"

// GetAccountFromArgs returns the "account" argument, or the default account.
func GetAccountFromArgs(args map[string]interface{}) string {
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		return accountVal
	}
	return server.DefaultAccount
}
