// Package common contains shared constants and sentinel errors used across
// PetKeeper server components.
package common

// SessionCookieName is the default cookie that carries the access token
// between the browser and the API.
const SessionCookieName = "jwt"

// AuthorizationScheme is the scheme expected in the Authorization header when
// the access token is sent as a bearer credential.
const AuthorizationScheme = "Bearer"
