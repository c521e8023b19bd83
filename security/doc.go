// Package security builds the client TLS settings for datastore connections.
//
//	tlsCfg, err := (&security.TLSConfig{Enabled: true, CAFile: "/etc/ssl/mongo-ca.pem"}).Build()
//	opts.SetTLSConfig(tlsCfg)
package security
