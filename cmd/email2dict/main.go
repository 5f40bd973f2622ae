// Command email2dict prints the structured record of email messages.
package main

import "github.com/zostay/go-email2dict/cmd/email2dict/cmd"

func main() {
	cmd.Execute()
}
