package domain

import (
	"strings"
	"unicode"
)

// EntityDescriptor routes one requested entity name to a backend table and a
// privilege tier. Derivation is pure: the same name always yields the same
// descriptor.
type EntityDescriptor struct {
	Name     string
	Table    string
	Elevated bool
}

// serviceRoleKeywords marks privilege-sensitive entities. Any entity name
// containing one of these (case-insensitive) is routed through the
// service-role connection, bypassing row-level security.
var serviceRoleKeywords = []string{
	"user",
	"transaction",
	"usermembership",
	"payment",
	"order",
	"subscription",
	"admin",
	"audit",
	"log",
}

// EntityTableName converts a PascalCase entity name to its snake_case table
// name: a separator is inserted before every capital letter, the result is
// lower-cased, and a leading separator is stripped ("JobSeekers" →
// "job_seekers", "BlogPost" → "blog_post").
func EntityTableName(entityName string) string {
	var b strings.Builder
	b.Grow(len(entityName) + 4)
	for _, r := range entityName {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimPrefix(b.String(), "_")
}

// RequiresServiceRole reports whether the entity name matches the
// privilege-sensitive keyword list.
func RequiresServiceRole(entityName string) bool {
	lower := strings.ToLower(entityName)
	for _, keyword := range serviceRoleKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// DescribeEntity derives the full descriptor for a requested entity name.
func DescribeEntity(entityName string) EntityDescriptor {
	return EntityDescriptor{
		Name:     entityName,
		Table:    EntityTableName(entityName),
		Elevated: RequiresServiceRole(entityName),
	}
}
