// Package domain contains the core entities of the user service. These types
// are free of infrastructure concerns so they can be shared by the service,
// the storage backends and the transports.
package domain
