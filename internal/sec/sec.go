// Package sec provides authentication and access-control primitives for the
// web application.
//
// # Authentication
//
// Users log in with a username and password, validated against bcrypt hashes
// stored in the database. On success the user's ID is written as the only
// value of a signed session cookie. Every request then resolves that cookie
// back into a user before any handler runs.
//
// Session cookies are signed, not encrypted. The user ID is visible to the
// client but cannot be altered without the secret key.
//
// # Components
//
//   - [Gate]: registration, login, logout and identity resolution
//   - [Sessions], [Session]: the signed cookie holding the user ID
//   - [LoadIdentity], [RequireIdentity]: echo middleware for the request flow
//   - [GetAuthenticatedUser], [SetAuthenticatedUser]: Context accessors for user info
//   - [HashPassword], [ComparePassword]: bcrypt password hashing utilities
package sec
