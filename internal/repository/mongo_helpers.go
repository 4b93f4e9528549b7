package repository

import (
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	UsersCollection    = "users"
	MessagesCollection = "messages"
)

// caseInsensitive compares strings at the secondary strength: letters fold, accents count.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// CaseInsensitiveCollation is shared with the index bootstrap so lookups can use the name index.
func CaseInsensitiveCollation() *options.Collation {
	return caseInsensitive
}

// exactNameRegex matches the whole value ignoring case.
func exactNameRegex(name string) bson.Regex {
	return bson.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}
}

func parseObjectID(id string) (bson.ObjectID, bool) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, false
	}
	return oid, true
}
