// Package models defines client-side data models used by the store admin CLI.
package models

import "time"

// Role is the closed set of platform roles returned by the backend.
type Role string

const (
	RolePlatformAdmin  Role = "PLATFORM_ADMIN"
	RoleCompanyAdmin   Role = "COMPANY_ADMIN"
	RoleStoreManager   Role = "STORE_MANAGER"
	RoleDeliveryPerson Role = "DELIVERY_PERSON"
	RoleCustomer       Role = "CUSTOMER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePlatformAdmin, RoleCompanyAdmin, RoleStoreManager, RoleDeliveryPerson, RoleCustomer:
		return true
	}
	return false
}

// Capabilities describes what a role is allowed to do in the admin UI.
// The mapping from role to permissions lives here and nowhere else;
// screens consult the capability set instead of comparing role strings.
type Capabilities struct {
	// ManageMultipleStores allows switching the active store.
	ManageMultipleStores bool
	// ManageStores allows creating/updating/deleting stores.
	ManageStores bool
	// ManageUsers allows administering user accounts.
	ManageUsers bool
	// ManageCatalog allows administering categories and products.
	ManageCatalog bool
}

// Capabilities returns the capability set for the role.
func (r Role) Capabilities() Capabilities {
	switch r {
	case RolePlatformAdmin, RoleCompanyAdmin:
		return Capabilities{
			ManageMultipleStores: true,
			ManageStores:         true,
			ManageUsers:          true,
			ManageCatalog:        true,
		}
	case RoleStoreManager:
		return Capabilities{ManageCatalog: true}
	default:
		return Capabilities{}
	}
}

// SingleStore reports whether the role is pinned to the user's home store.
// For these roles the active store always equals the profile's store id.
func (r Role) SingleStore() bool {
	return !r.Capabilities().ManageMultipleStores
}

// User is the authenticated actor as returned by GET /auth/me.
// A snapshot of the last known user is also persisted locally as an
// offline fallback; the fresh API response is always authoritative.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	StoreID   *int64    `json:"store_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns the full name if set, otherwise the email.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// UserCreate is the payload for POST /users/.
type UserCreate struct {
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     Role   `json:"role,omitempty"`
	Password string `json:"password,omitempty"`
	StoreID  *int64 `json:"store_id,omitempty"`
}

// UserUpdate is the payload for PUT /users/{id}. Nil fields are left unchanged.
type UserUpdate struct {
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *Role   `json:"role,omitempty"`
	StoreID  *int64  `json:"store_id,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// UserList is the paged response of GET /users/.
type UserList struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}
