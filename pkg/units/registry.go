package units

// unitKey is the category-scoped identity of a unit. Ids may repeat across
// categories, so the pair is the only unambiguous key.
type unitKey struct {
	category CategoryName
	id       string
}

// Registry is an immutable, ordered set of categories.
type Registry struct {
	categories []Category
	flat       []Unit
	byName     map[CategoryName]int
	byKey      map[unitKey]int // index into flat
	firstOwner map[string]int  // unit id -> index of first declaring category
}

var defaultRegistry = NewRegistry(categoryTable())

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// NewRegistry indexes categories in declaration order. When an id is
// declared by several categories, the first one owns it for FindCategory.
func NewRegistry(categories []Category) *Registry {
	r := &Registry{
		categories: categories,
		byName:     make(map[CategoryName]int, len(categories)),
		byKey:      make(map[unitKey]int),
		firstOwner: make(map[string]int),
	}
	for ci, c := range categories {
		if _, dup := r.byName[c.Name]; !dup {
			r.byName[c.Name] = ci
		}
		for _, u := range c.Units {
			key := unitKey{category: c.Name, id: u.ID}
			if _, dup := r.byKey[key]; !dup {
				r.byKey[key] = len(r.flat)
			}
			// first declared category wins
			if _, seen := r.firstOwner[u.ID]; !seen {
				r.firstOwner[u.ID] = ci
			}
			r.flat = append(r.flat, u)
		}
	}
	return r
}

// Categories returns every category in declaration order. The slice is
// shared by all callers and must not be modified.
func (r *Registry) Categories() []Category {
	return r.categories
}

// Names returns the category names in declaration order.
func (r *Registry) Names() []CategoryName {
	names := make([]CategoryName, len(r.categories))
	for i, c := range r.categories {
		names[i] = c.Name
	}
	return names
}

// Units returns all units of all categories, flattened in declaration order.
// The slice is shared and must not be modified.
func (r *Registry) Units() []Unit {
	return r.flat
}

// Category returns the category with the given name.
func (r *Registry) Category(name string) (Category, bool) {
	i, ok := r.byName[CategoryName(name)]
	if !ok {
		return Category{}, false
	}
	return r.categories[i], true
}

// FindCategory returns the first category, in declaration order, whose
// unit list contains id. If an id is declared by more than one category the
// earliest declaration always wins.
func (r *Registry) FindCategory(id string) (Category, bool) {
	i, ok := r.firstOwner[id]
	if !ok {
		return Category{}, false
	}
	return r.categories[i], true
}

// IsCategoryName reports whether name exactly matches a category name.
func (r *Registry) IsCategoryName(name string) bool {
	_, ok := r.byName[CategoryName(name)]
	return ok
}

// Options projects a category's units into menu options. Unknown names
// yield an empty slice.
func (r *Registry) Options(name string) []SelectOption {
	c, ok := r.Category(name)
	if !ok {
		return []SelectOption{}
	}
	opts := make([]SelectOption, len(c.Units))
	for i, u := range c.Units {
		opts[i] = SelectOption{Label: u.Label, Value: u.ID}
	}
	return opts
}

// Lookup resolves a unit inside one category.
func (r *Registry) Lookup(category CategoryName, id string) (Unit, bool) {
	i, ok := r.byKey[unitKey{category: category, id: id}]
	if !ok {
		return Unit{}, false
	}
	return r.flat[i], true
}

// factorIn returns the unit's factor within one category table. Units
// without a factor are reported as not found.
func (r *Registry) factorIn(category CategoryName, id string) (Factor, bool) {
	u, ok := r.Lookup(category, id)
	if !ok {
		return Factor{}, false
	}
	return u.Factor()
}

// IDs returns every distinct unit id in declaration order.
func (r *Registry) IDs() []string {
	seen := make(map[string]bool, len(r.flat))
	ids := make([]string, 0, len(r.flat))
	for _, u := range r.flat {
		if seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		ids = append(ids, u.ID)
	}
	return ids
}

// --- Package-level access to the default registry ---

// Categories returns the default registry's categories.
func Categories() []Category { return defaultRegistry.Categories() }

// FindCategory looks up a unit id in the default registry.
func FindCategory(id string) (Category, bool) { return defaultRegistry.FindCategory(id) }

// IsCategoryName reports whether name is a category of the default registry.
func IsCategoryName(name string) bool { return defaultRegistry.IsCategoryName(name) }

// Options returns menu options for a category of the default registry.
func Options(name string) []SelectOption { return defaultRegistry.Options(name) }
