// Package exitcode defines the process exit codes shared by all commands.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError covers bad arguments, unknown references and unresolved
	// project names.
	UserError = 1

	// AuthError covers missing or rejected credentials.
	AuthError = 2

	// BackendError covers API, network and timeout failures.
	BackendError = 3
)
