// Package viewfilter projects full records down to the field subset a given
// audience is allowed to see. Projections are pure functions; authorization
// for corporate records is expressed through them (no access = empty record),
// so consumers cannot tell "no access" from "nothing found".
package viewfilter

import (
	"github.com/alegrify/go-services/internal/datastore"
)

// Per-audience user field allow-lists. A field not listed here never leaves
// the system for that audience.
var (
	userFieldsSelf = []string{
		"_id",
		"first_name",
		"last_name",
		"full_name",
		"email",
		"avatar",
		"locale",
		"type",
		"corporates",
		"consults",
		"clients",
	}
	userFieldsClient = []string{
		"_id",
		"first_name",
		"last_name",
		"full_name",
		"avatar",
		"title",
		"bio",
	}
	userFieldsConsult = []string{
		"_id",
		"first_name",
		"last_name",
		"full_name",
		"email",
		"avatar",
	}
	userFieldsCorporate = []string{
		"_id",
		"first_name",
		"last_name",
		"full_name",
		"email",
		"avatar",
	}
)

// UpdatableUserFields lists what a user may patch on their own record.
var UpdatableUserFields = []string{
	"first_name",
	"last_name",
	"email",
	"locale",
	"title",
	"bio",
}

// OutputToSelf projects a user record for the user themselves.
func OutputToSelf(user datastore.Record) datastore.Record {
	return projectUser(user, userFieldsSelf)
}

// OutputToClient projects a user record for one of their clients.
func OutputToClient(user datastore.Record) datastore.Record {
	return projectUser(user, userFieldsClient)
}

// OutputToConsult projects a user record for their consultant.
func OutputToConsult(user datastore.Record) datastore.Record {
	return projectUser(user, userFieldsConsult)
}

// OutputToCorporate projects a user record for corporate admins.
func OutputToCorporate(user datastore.Record) datastore.Record {
	return projectUser(user, userFieldsCorporate)
}

func projectUser(user datastore.Record, fields []string) datastore.Record {
	if user == nil {
		return nil
	}
	filtered := datastore.Record{}
	fullName := user.StringField("first_name") + " " + user.StringField("last_name")
	for _, field := range fields {
		if field == "full_name" {
			filtered[field] = fullName
			continue
		}
		if value, ok := user[field]; ok {
			filtered[field] = value
		}
	}
	return filtered
}
