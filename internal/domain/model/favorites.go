//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// MaxFavorites caps the number of saved listings per user.
const MaxFavorites = 500

// Favorites is the set of listing ids a user starred, newest first.
type Favorites struct {
	ListingIDs []string `json:"listing_ids"`
}

// Contains reports whether id is already a favorite.
func (f Favorites) Contains(id string) bool {
	for _, v := range f.ListingIDs {
		if v == id {
			return true
		}
	}
	return false
}
