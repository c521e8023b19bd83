// Package mongodb provides the MongoDB client used as the document store,
// with connection retry, command logging and lifecycle management through
// component.Component.
//
//	comp := mongodb.NewComponent(cfg.Store.Mongo, log)
//	app.RegisterComponent(comp)
//	// after Start:
//	users := comp.Client().Collection("users")
//
// Configuration:
//
//	store:
//	  mongo:
//	    uri: "mongodb://localhost:27017"
//	    database: "userauth"
//	    connect_timeout: "10s"
//	    max_pool_size: 100
package mongodb
