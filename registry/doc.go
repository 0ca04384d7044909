/*
Package registry resolves resource names to their service instances.

The mapping is built explicitly at startup and passed to stores, instead of being
discovered at runtime:

	reg := registry.New()
	err := reg.Preload(ctx,
	    registry.Static("ClienteService", httpsvc.New[Cliente](client, "cliente")),
	    registry.Definition{Name: "CargoService", Load: loadCargo},
	)

Preload runs every loader concurrently and fails when no definition is given.
Lookups of a name that was never registered fail with errors.ErrServiceNotFound:

	svc, err := registry.Lookup[Cliente](reg, "ClienteService")

Both conditions are configuration errors and are expected to stop the program.
*/
package registry
