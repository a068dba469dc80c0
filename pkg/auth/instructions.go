package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowAPIKeyGuide explains where the optional API key comes from
func ShowAPIKeyGuide(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, "🔑 CSFLOAT API KEY")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The public screenshot endpoint works without a key. A key raises")
	fmt.Fprintln(w, "the rate limit and is sent as the Authorization header.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  1. Sign in at https://csfloat.com")
	fmt.Fprintln(w, "  2. Open your profile, then the Developer tab")
	fmt.Fprintln(w, "  3. Create a new key and paste it below")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "The key is stored in the system keyring, or an encrypted file when\n")
	fmt.Fprintf(w, "no keyring is available. %s overrides both.\n", APIKeyEnv)
	fmt.Fprintln(w, strings.Repeat("=", 72))
}
