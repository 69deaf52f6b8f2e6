package entities

import (
	"sort"

	"github.com/twoojoo/zschema/schema"
)

// Domains group schemas for message catalogs; see the i18n package.
const (
	DomainCommon  = "common"
	DomainUser    = "user"
	DomainTodo    = "todo"
	DomainProduct = "product"
	DomainAuth    = "auth"
)

// Entry is a named schema in the registry.
type Entry struct {
	Name   string
	Domain string
	Schema *schema.ObjectSchema
}

var registry = map[string]Entry{}

func register(domain string, schemas ...*schema.ObjectSchema) {
	for _, s := range schemas {
		if _, dup := registry[s.Title()]; dup {
			panic("entities: duplicate schema " + s.Title())
		}
		registry[s.Title()] = Entry{Name: s.Title(), Domain: domain, Schema: s}
	}
}

func init() {
	register(DomainCommon, IDSchema, PaginationSchema, SearchSchema, DateRangeSchema)
	register(DomainUser, UserSchema, CreateUserSchema, UpdateUserSchema, LoginSchema)
	register(DomainTodo, TodoSchema, CreateTodoSchema, UpdateTodoSchema,
		TodoIDSchema, TodoListSchema, TodoFilterSchema)
	register(DomainProduct, ProductSchema, CreateProductSchema, UpdateProductSchema,
		ProductIDSchema, ProductListSchema, ProductFilterSchema)
	register(DomainAuth, RegisterSchema, ResetPasswordSchema, ChangePasswordSchema)
}

// Lookup returns the registered schema with the given name.
func Lookup(name string) (Entry, bool) {
	e, ok := registry[name]
	return e, ok
}

// Names returns the registered schema names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns every registry entry ordered by name.
func All() []Entry {
	names := Names()
	out := make([]Entry, len(names))
	for i, n := range names {
		out[i] = registry[n]
	}
	return out
}
