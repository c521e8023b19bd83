// Package user implements account registration, login, lookup and profile
// updates.
//
// Service holds the business rules and depends on a Store for persistence;
// mongostore and sqlstore provide the MongoDB and SQLite implementations.
// Handler adapts the service to Gin:
//
//	svc := user.NewService(store, hasher, codec, user.WithLogger(log))
//	user.RegisterRoutes(srv.API(), user.NewHandler(svc), user.RouteConfig{
//	    Authenticate: middleware.Auth(middleware.AuthConfig{Decoder: codec}),
//	    Limit:        srv.AuthRateLimit(),
//	})
//
// Routes (under the API base path):
//
//	POST /register          public
//	POST /login             public
//	GET  /user/:id          bearer token
//	GET  /users[/:page]     bearer token
//	PUT  /update-user/:id   bearer token
package user
