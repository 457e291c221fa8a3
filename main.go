// Command runway projects day-by-day cash balances from accounts, paychecks,
// credit cards and life events.
package main

import "github.com/runwayhq/runway/cmd"

func main() {
	cmd.Execute()
}
