package viewfilter

import (
	"github.com/alegrify/go-services/internal/datastore"
)

// Registry plugs the projections into the datastore population step: User
// sub-records are reduced to the client view, Corporate sub-records to
// whatever the viewer may see, everything else passes through untouched.
type Registry struct{}

func NewRegistry() Registry { return Registry{} }

func (Registry) ProjectorFor(collection, viewerID string) func(datastore.Record) datastore.Record {
	switch collection {
	case "User":
		return OutputToClient
	case "Corporate":
		return OutputToMe(viewerID)
	}
	return nil
}
