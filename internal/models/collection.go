package models

// AllCategories is the filter value that matches every goal
const AllCategories = "all"

// GoalCollection is the ordered goal list. Insertion order is display order.
type GoalCollection []Goal

// Index returns the position of the goal with the given id, or -1
func (c GoalCollection) Index(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the goal with the given id
func (c GoalCollection) Find(id string) (Goal, bool) {
	if i := c.Index(id); i >= 0 {
		return c[i], true
	}
	return Goal{}, false
}

// Clone returns an independent copy
func (c GoalCollection) Clone() GoalCollection {
	if c == nil {
		return GoalCollection{}
	}
	out := make(GoalCollection, len(c))
	copy(out, c)
	return out
}

// Replace swaps the goal with g.ID in place. It reports false if the id is gone.
func (c GoalCollection) Replace(g Goal) bool {
	i := c.Index(g.ID)
	if i < 0 {
		return false
	}
	c[i] = g
	return true
}

// Without returns the collection minus the goal with the given id
func (c GoalCollection) Without(id string) (GoalCollection, bool) {
	i := c.Index(id)
	if i < 0 {
		return c, false
	}
	out := make(GoalCollection, 0, len(c)-1)
	out = append(out, c[:i]...)
	return append(out, c[i+1:]...), true
}

// CompletedCount returns how many goals are completed
func (c GoalCollection) CompletedCount() int {
	n := 0
	for _, g := range c {
		if g.Completed {
			n++
		}
	}
	return n
}

// Categories returns "all" followed by each distinct category in first-seen order
func (c GoalCollection) Categories() []string {
	seen := map[string]bool{}
	cats := []string{AllCategories}
	for _, g := range c {
		if g.Category == "" || seen[g.Category] {
			continue
		}
		seen[g.Category] = true
		cats = append(cats, g.Category)
	}
	return cats
}

// Filter returns the goals in the given category; "all" or "" returns everything
func (c GoalCollection) Filter(category string) GoalCollection {
	if category == "" || category == AllCategories {
		return c.Clone()
	}
	out := GoalCollection{}
	for _, g := range c {
		if g.Category == category {
			out = append(out, g)
		}
	}
	return out
}
