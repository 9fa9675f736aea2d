package main

import (
	"fmt"
	"os"

	"github.com/caseforge/casechat/internal/auth"
)

// hashpw prints the bcrypt hash of a gate password, for provisioning
// APP_PASSWORD / ADMIN_PASSWORD as hashes instead of plaintext.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashpw <password>")
		os.Exit(2)
	}
	hash, err := auth.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
