// Package auth holds the authentication configuration and the token
// contracts the service and middleware depend on.
//
// Subpackages:
//
//   - auth/jwt      session token codec (HMAC-signed JWT)
//   - auth/password bcrypt password hashing
//   - auth/authctx  claims propagation through context.Context
//
// Configuration:
//
//	auth:
//	  jwt:
//	    secret: "..."
//	    ttl: "720h"
//	  password:
//	    bcrypt_cost: 10
package auth
