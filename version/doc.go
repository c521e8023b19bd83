// Package version reports which build is running, for /info and the startup
// summary. Values can be stamped at link time:
//
//	go build -ldflags "-X github.com/kbukum/userauth/version.Version=1.4.0"
package version
