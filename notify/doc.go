// Package notify implements the confirmation and notification collaborators
// used by stores: success and confirmation dialogs, the snackbar, the
// validation dialog, a Router mapping API failures to them, and a Console
// variant for terminals.
package notify
