// Package session tracks one respondent's pass through a survey: the
// response tree, the monotonic completion set, and the per-question error
// set that gates forward navigation.
package session

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-surveykit/pkg/answers"
	"github.com/goliatone/go-surveykit/pkg/model"
)

// RequiredMessage is the per-question error surfaced for missing required
// answers.
const RequiredMessage = "This field is required"

var (
	// ErrSectionInvalid is returned by Next and Submit when required
	// questions in the current section are unanswered. The per-question
	// detail is available from Errors.
	ErrSectionInvalid = errors.New("session: current section has missing required answers")

	// ErrNotLastSection is returned by Submit before the final section.
	ErrNotLastSection = errors.New("session: submit is only available on the last section")
)

// Controller is the section-gated progression state machine. It is not safe
// for concurrent use; a session serialises its own edits.
type Controller struct {
	schema    model.Schema
	index     int
	tree      answers.Tree
	completed map[string]struct{}
	errs      map[string]string
}

// New starts a session at the first section with an empty response tree.
func New(schema model.Schema) *Controller {
	return &Controller{
		schema:    schema,
		tree:      make(answers.Tree),
		completed: make(map[string]struct{}),
		errs:      make(map[string]string),
	}
}

// Current returns the accessible section.
func (c *Controller) Current() model.Section {
	return c.schema.Sections[c.index]
}

// Progress reports the 1-based position of the current section and the
// section count.
func (c *Controller) Progress() (int, int) {
	return c.index + 1, len(c.schema.Sections)
}

// IsFirst reports whether the current section is the first.
func (c *Controller) IsFirst() bool { return c.index == 0 }

// IsLast reports whether the current section is the last.
func (c *Controller) IsLast() bool { return c.index == len(c.schema.Sections)-1 }

// Answer returns the stored answer for a question in the current section.
func (c *Controller) Answer(questionID string) answers.Answer {
	return c.tree.Answer(c.Current().ID, questionID)
}

// SetAnswer stores an answer for a question in the current section and
// clears any validation error recorded against it. Edits are the only thing
// that clears an error; navigation does not.
func (c *Controller) SetAnswer(questionID string, a answers.Answer) error {
	if _, ok := c.Current().Question(questionID); !ok {
		return fmt.Errorf("session: section %q has no question %q", c.Current().ID, questionID)
	}
	c.tree.Set(c.Current().ID, questionID, a)
	delete(c.errs, questionID)
	return nil
}

// Errors returns the per-question messages from the last failed Next or
// Submit validation pass.
func (c *Controller) Errors() map[string]string {
	out := make(map[string]string, len(c.errs))
	for id, msg := range c.errs {
		out[id] = msg
	}
	return out
}

// Completed reports whether a section has ever passed validation. Membership
// is monotonic for the life of the session.
func (c *Controller) Completed(sectionID string) bool {
	_, ok := c.completed[sectionID]
	return ok
}

// Accessible reports whether a section can be navigated to: the first
// section always, later sections only once every prior section is completed.
func (c *Controller) Accessible(sectionID string) bool {
	idx := c.schema.SectionIndex(sectionID)
	if idx < 0 {
		return false
	}
	for _, prior := range c.schema.Sections[:idx] {
		if !c.Completed(prior.ID) {
			return false
		}
	}
	return true
}

// Next validates the current section and, on success, records it as
// completed and advances. On failure the error set is populated and the
// section stays current.
func (c *Controller) Next() error {
	if !c.validateCurrent() {
		return ErrSectionInvalid
	}
	c.completed[c.Current().ID] = struct{}{}
	if !c.IsLast() {
		c.index++
	}
	return nil
}

// Previous moves back one section. It never validates and never touches the
// completion set.
func (c *Controller) Previous() bool {
	if c.IsFirst() {
		return false
	}
	c.index--
	return true
}

// GoTo jumps to an accessible section, for navigation UIs that let
// respondents revisit completed steps.
func (c *Controller) GoTo(sectionID string) error {
	if !c.Accessible(sectionID) {
		return fmt.Errorf("session: section %q is not accessible yet", sectionID)
	}
	c.index = c.schema.SectionIndex(sectionID)
	return nil
}

// Submit validates the final section and returns the full response tree.
// The tree is shared, not copied; callers hand it straight to the
// orchestrator and discard the session.
func (c *Controller) Submit() (answers.Tree, error) {
	if !c.IsLast() {
		return nil, ErrNotLastSection
	}
	if !c.validateCurrent() {
		return nil, ErrSectionInvalid
	}
	c.completed[c.Current().ID] = struct{}{}
	return c.tree, nil
}

func (c *Controller) validateCurrent() bool {
	section := c.Current()
	failed := false
	for _, question := range section.Questions {
		if err := answers.Validate(question, c.tree.Answer(section.ID, question.ID)); err != nil {
			c.errs[question.ID] = RequiredMessage
			failed = true
		}
	}
	return !failed
}
