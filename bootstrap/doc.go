// Package bootstrap wires configuration, logging and the serializer registry
// for the alertwire commands.
//
// Usage:
//
//	app, err := bootstrap.NewApp(configFile)
//	if err != nil {
//	    return err
//	}
//	defer app.Shutdown()
package bootstrap
