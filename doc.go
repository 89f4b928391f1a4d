// Package formstate tracks the value tree of one dynamic form session and
// keeps its derived state current.
//
// A Session owns a schema-backed value store, the ancillary collectors
// (tags, code slots, date ranges) and a submission gate. Every mutation is
// applied under one lock and followed by a full revalidation, so Errors and
// ActiveGroups always reflect the latest edit.
//
//	s, _ := formstate.NewSession(schema.Registration())
//	_ = s.Set("name", "Ada")
//	_ = s.Set("category", "job")
//	result := s.Submit(ctx)
package formstate
