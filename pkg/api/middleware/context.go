package middleware

// contextKey is a private type for context keys defined in this package.
// Using a private type prevents collisions with keys defined elsewhere.
type contextKey string

// RequestIDKey is the context key under which the request ID is stored.
const RequestIDKey contextKey = "request_id"
