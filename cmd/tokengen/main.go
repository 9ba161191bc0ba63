// tokengen mints HMAC-signed bearer tokens against the configured
// secret, for manual testing against a local server. Production token
// issuance stays external.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/itassets/domain-api/auth"
	"github.com/itassets/domain-api/config"
)

func main() {
	username := flag.String("username", "", "username claim (required)")
	role := flag.String("role", "", "role claim (required)")
	expiresIn := flag.Duration("expires-in", time.Hour, "token lifetime")
	flag.Parse()

	if *username == "" || *role == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	codec := auth.NewCodec(cfg.JWT.Secret)
	token, err := codec.Sign(*username, *role, *expiresIn)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to sign token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
