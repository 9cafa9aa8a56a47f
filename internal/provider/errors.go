package provider

import "errors"

// ErrTargetNotProvisioned is returned by TargetDetails when the server has
// never been provisioned for backup at all. Implementations wrap it so the
// reconciler can name the condition without knowing the vendor's message.
var ErrTargetNotProvisioned = errors.New("target not provisioned for backup")
