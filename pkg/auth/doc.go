// Package auth stores the optional CSFloat API key per profile.
//
// Keys go to the system keyring when it is available and to an AES-GCM
// encrypted file otherwise. GAMMASCOPE_API_KEY overrides any stored key.
package auth
