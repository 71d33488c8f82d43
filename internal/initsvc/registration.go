package initsvc

import "reactor/internal/lifecycle"

// Registration is a single entry in InitService's registry: a named
// service, its configuration payload, whether it should be started as
// part of boot(), and the names of the services it depends on.
type Registration struct {
	Name         string
	Service      lifecycle.Service
	Config       any
	StartOnBoot  bool
	Dependencies []string
}

// resolverSetter is implemented by services built on lifecycle.ServiceBase
// so InitService can wire itself in as their name->Service resolver.
type resolverSetter interface {
	SetResolver(lifecycle.Resolver)
}
