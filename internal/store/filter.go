package store

import "strings"

// Sort keys accepted by project listing. Unknown keys fall back to newest.
const (
	SortNewest   = "newest"
	SortTrending = "trending"
	SortPopular  = "popular"
)

// orderings maps a sort key to its ORDER BY clause. Trending and popular
// tie-break on creation time, newest on id for a total order.
var orderings = map[string]string{
	SortNewest:   "created_at DESC, id DESC",
	SortTrending: "upvote_count DESC, created_at DESC",
	SortPopular:  "view_count DESC, created_at DESC",
}

// Filters is the UI-level filter state for project listings. Page and
// Limit are bounds-checked by the request DTO before reaching the store.
type Filters struct {
	Platform string
	Category string
	Search   string
	Sort     string
	Page     int
	Limit    int
}

// query is the translated persistence-layer descriptor: WHERE conjuncts
// with positional args, an ORDER BY clause, and LIMIT/OFFSET.
type query struct {
	where   []string
	args    []any
	orderBy string
	limit   int
	offset  int
}

// translate converts filters into a query descriptor. Pure data
// transformation, no I/O.
func translate(f Filters) query {
	q := query{limit: f.Limit}

	if f.Platform != "" {
		q.where = append(q.where, "platform = ?")
		q.args = append(q.args, f.Platform)
	}
	if f.Category != "" {
		q.where = append(q.where, "category = ?")
		q.args = append(q.args, f.Category)
	}
	if f.Search != "" {
		like := "%" + escapeLike(f.Search) + "%"
		q.where = append(q.where,
			`(title LIKE ? ESCAPE '\' OR tagline LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`)
		q.args = append(q.args, like, like, like)
	}

	order, ok := orderings[f.Sort]
	if !ok {
		order = orderings[SortNewest]
	}
	q.orderBy = order

	if q.limit <= 0 {
		q.limit = 20
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	q.offset = (page - 1) * q.limit

	return q
}

// escapeLike neutralizes LIKE wildcards in user-supplied search text so
// a literal "%" or "_" matches itself.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func (q query) whereClause() string {
	if len(q.where) == 0 {
		return ""
	}
	clause := " WHERE " + q.where[0]
	for _, w := range q.where[1:] {
		clause += " AND " + w
	}
	return clause
}
