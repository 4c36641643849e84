package tags

import "sort"

// Standard tag keys.
const (
	// KeyStack identifies which stack a resource belongs to.
	KeyStack = "cloudtemplate:stack"

	// KeyManagedBy identifies the management tool.
	KeyManagedBy = "cloudtemplate:managed-by"

	// KeyRunID identifies the apply run that created the resource.
	KeyRunID = "cloudtemplate:run-id"

	// KeyName is the tag EC2 uses as the display name. Instances are
	// looked up by it.
	KeyName = "Name"
)

// ManagedByCloudtemplate is the value of KeyManagedBy.
const ManagedByCloudtemplate = "cloudtemplate"

// Builder provides a fluent interface for building resource tags.
type Builder struct {
	tags map[string]string
}

// NewBuilder creates a builder with the stack name and manager pre-set.
func NewBuilder(stack string) *Builder {
	return &Builder{
		tags: map[string]string{
			KeyStack:     stack,
			KeyManagedBy: ManagedByCloudtemplate,
		},
	}
}

// WithName sets the Name tag.
func (b *Builder) WithName(name string) *Builder {
	if name != "" {
		b.tags[KeyName] = name
	}
	return b
}

// WithRunID sets the run id tag. Empty ids are ignored.
func (b *Builder) WithRunID(runID string) *Builder {
	if runID != "" {
		b.tags[KeyRunID] = runID
	}
	return b
}

// Merge adds user-supplied tags. They never override the standard keys.
func (b *Builder) Merge(extra map[string]string) *Builder {
	for k, v := range extra {
		if k == KeyStack || k == KeyManagedBy || k == KeyRunID {
			continue
		}
		b.tags[k] = v
	}
	return b
}

// Build returns a copy of the tags.
func (b *Builder) Build() map[string]string {
	result := make(map[string]string, len(b.tags))
	for k, v := range b.tags {
		result[k] = v
	}
	return result
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
