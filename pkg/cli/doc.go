// Package cli provides the FieldLink command-line interface.
//
// # Overview
//
// This package implements the `fieldlink` CLI for operators and developers:
// log in with typed backend credentials, inspect the stored session, perform
// authenticated backend calls, and log out. Sessions persist in the
// configured credential vault between invocations.
//
// # Commands
//
// login: Establish a session with typed credentials
//
//	fieldlink login \
//		--username admin_jane \
//		--password s3cret
//
// whoami: Show the stored session profile
//
//	fieldlink whoami
//	fieldlink whoami --json
//
// call: Perform an authenticated backend request
//
//	fieldlink call --method GET --path /v1/incidents
//	echo '{"status":"resolved"}' | fieldlink call \
//		--method PATCH --path /v1/incidents/42 --stdin
//
// logout: Clear the stored session
//
//	fieldlink logout
//
// # Configuration
//
// Commands read the standard FieldLink environment variables (see
// pkg/config), most importantly:
//
//	export FIELDLINK_PROFILE_URL="https://profiles.example.org"
//	export FIELDLINK_BACKEND_URL="https://api.example.org"
//	export FIELDLINK_VAULT_BACKEND="sqlite"
//
// # Related Packages
//
//   - pkg/config: Environment and file configuration
//   - pkg/session: Session coordination for login
//   - pkg/restexec: Authenticated backend calls
//   - pkg/vault: Durable credential storage
package cli
