// internal/application/store/snapshot.go
package store

import (
	"encoding/json"
	"fmt"

	authdom "storefront/internal/domain/auth"
	cartdom "storefront/internal/domain/cart"
	themedom "storefront/internal/domain/theme"
)

// snapshotVersion is written under "_persist" for future migrations.
const snapshotVersion = 1

// persisted root document:
//
//	{"cart":{...},"auth":{...},"theme":{...},"_persist":{"version":1}}
//
// each slice is decoded independently so one bad slice does not reset the others.
type rootDoc struct {
	Cart    json.RawMessage `json:"cart,omitempty"`
	Auth    json.RawMessage `json:"auth,omitempty"`
	Theme   json.RawMessage `json:"theme,omitempty"`
	Persist persistMeta     `json:"_persist"`
}

type persistMeta struct {
	Version int `json:"version"`
}

// themeDoc keeps "field absent" distinguishable from false.
type themeDoc struct {
	DarkMode *bool `json:"darkMode"`
}

func encodeSnapshot(snap Snapshot) ([]byte, error) {
	cart, err := json.Marshal(snap.Cart)
	if err != nil {
		return nil, err
	}
	auth, err := json.Marshal(snap.Auth)
	if err != nil {
		return nil, err
	}
	theme, err := json.Marshal(snap.Theme)
	if err != nil {
		return nil, err
	}
	return json.Marshal(rootDoc{
		Cart:    cart,
		Auth:    auth,
		Theme:   theme,
		Persist: persistMeta{Version: snapshotVersion},
	})
}

// decodeSnapshot never fails: anything missing or malformed becomes the
// slice default, and a note is returned for each fallback taken.
func decodeSnapshot(raw []byte, found bool) (*cartdom.Cart, authdom.State, themedom.State, []string) {
	cart := cartdom.New()
	auth := authdom.State{}
	theme := themedom.Default()

	if !found || len(raw) == 0 {
		return cart, auth, theme, nil
	}

	var warns []string

	var root rootDoc
	if err := json.Unmarshal(raw, &root); err != nil {
		return cart, auth, theme, []string{fmt.Sprintf("root: %v", err)}
	}

	if len(root.Cart) > 0 {
		var c cartdom.Cart
		if err := json.Unmarshal(root.Cart, &c); err != nil {
			warns = append(warns, fmt.Sprintf("cart: %v", err))
		} else {
			c.Normalize()
			cart = &c
		}
	}

	if len(root.Auth) > 0 {
		var a authdom.State
		if err := json.Unmarshal(root.Auth, &a); err != nil {
			warns = append(warns, fmt.Sprintf("auth: %v", err))
		} else if a.User != nil && !a.Authenticated() {
			warns = append(warns, "auth: user without uid")
		} else {
			auth = a
		}
	}

	if len(root.Theme) > 0 {
		var t themeDoc
		if err := json.Unmarshal(root.Theme, &t); err != nil {
			warns = append(warns, fmt.Sprintf("theme: %v", err))
		} else if t.DarkMode != nil {
			theme.Set(*t.DarkMode)
		}
	}

	return cart, auth, theme, warns
}
