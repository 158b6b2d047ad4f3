// Package auth provides authentication and role-based authorization.
// Users authenticate against the local database with Argon2id hashed
// passwords; permissions are resolved through the user's role.
package auth
