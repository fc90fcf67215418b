// Package restexec executes authenticated calls against the legacy REST
// backend and recovers transparently from credential expiry.
//
// # Overview
//
// Every outbound business call goes through the Executor. It attaches the
// current backend credentials as HTTP Basic auth, sends the request, and on
// the first 401 asks the session coordinator to refresh before retrying the
// call exactly once. A 401 is the backend's only expiry signal.
//
// Per-call lifecycle:
//
//	Sending -> Success
//	Sending -> AuthRetry -> Sending -> Success | Fail
//	Sending -> Fail
//
// # Errors
//
// ErrAuthRequired: no session is present; the caller must log in first.
// ErrAuthExpired: the refresh failed; the caller must force a re-login.
// NetworkError and ServerError propagate unchanged; feature code owns its
// own user-facing messaging for those.
//
// # Usage Example
//
//	exec := restexec.NewExecutor(restexec.Config{BaseURL: cfg.BackendBaseURL}, coordinator, logger, metrics)
//
//	resp, err := exec.Do(ctx, restexec.Request{
//		Method: http.MethodGet,
//		Path:   "/v2/assignments",
//	})
//
// # Related Packages
//
//   - pkg/session: supplies credentials and the refresh operation
package restexec
