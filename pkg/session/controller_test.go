package session_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-surveykit/pkg/answers"
	"github.com/goliatone/go-surveykit/pkg/model"
	"github.com/goliatone/go-surveykit/pkg/session"
)

func threeStepSchema() model.Schema {
	return model.Schema{
		ID: "three-step",
		Sections: []model.Section{
			{ID: "profile", Title: "Profile", Questions: []model.Question{
				{ID: "companyName", Type: model.QuestionTypeText, Label: "Company name", Required: true},
				{ID: "website", Type: model.QuestionTypeText, Label: "Website"},
			}},
			{ID: "consumption", Title: "Consumption", Questions: []model.Question{
				{ID: "notes", Type: model.QuestionTypeTextarea, Label: "Notes"},
			}},
			{ID: "outlook", Title: "Outlook", Questions: []model.Question{
				{ID: "forecast", Type: model.QuestionTypeText, Label: "Forecast", Required: true},
			}},
		},
	}
}

func TestNextBlocksOnMissingRequired(t *testing.T) {
	c := session.New(threeStepSchema())

	if err := c.Next(); !errors.Is(err, session.ErrSectionInvalid) {
		t.Fatalf("Next = %v, want ErrSectionInvalid", err)
	}
	if pos, _ := c.Progress(); pos != 1 {
		t.Fatalf("position moved to %d on failed Next", pos)
	}
	if got := c.Errors(); got["companyName"] != session.RequiredMessage {
		t.Fatalf("errors = %v", got)
	}
	if _, flagged := c.Errors()["website"]; flagged {
		t.Fatal("optional question should not be flagged")
	}
}

func TestEditClearsErrorNavigationDoesNot(t *testing.T) {
	c := session.New(threeStepSchema())

	if err := c.Next(); err == nil {
		t.Fatal("expected failed Next")
	}
	if err := c.SetAnswer("companyName", answers.Scalar("Acme")); err != nil {
		t.Fatalf("set answer: %v", err)
	}
	if _, flagged := c.Errors()["companyName"]; flagged {
		t.Fatal("edit should clear the question error")
	}

	if err := c.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !c.Previous() {
		t.Fatal("Previous should succeed from section 2")
	}
	if pos, _ := c.Progress(); pos != 1 {
		t.Fatalf("position = %d after Previous", pos)
	}
}

func TestCompletionIsMonotonic(t *testing.T) {
	c := session.New(threeStepSchema())

	if err := c.SetAnswer("companyName", answers.Scalar("Acme")); err != nil {
		t.Fatalf("set answer: %v", err)
	}
	if err := c.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !c.Completed("profile") {
		t.Fatal("profile should be completed")
	}

	c.Previous()
	if err := c.SetAnswer("companyName", answers.Scalar("")); err != nil {
		t.Fatalf("set answer: %v", err)
	}
	if !c.Completed("profile") {
		t.Fatal("completion must survive the answer becoming invalid")
	}
	if err := c.Next(); !errors.Is(err, session.ErrSectionInvalid) {
		t.Fatalf("Next = %v, want ErrSectionInvalid", err)
	}
	if !c.Completed("profile") {
		t.Fatal("completion must survive a failed revalidation")
	}
}

func TestAccessibilityRequiresAllPriorComplete(t *testing.T) {
	c := session.New(threeStepSchema())

	if !c.Accessible("profile") {
		t.Fatal("first section is always accessible")
	}
	if c.Accessible("outlook") {
		t.Fatal("later sections start inaccessible")
	}
	if err := c.GoTo("outlook"); err == nil {
		t.Fatal("GoTo should reject an inaccessible section")
	}

	if err := c.SetAnswer("companyName", answers.Scalar("Acme")); err != nil {
		t.Fatalf("set answer: %v", err)
	}
	if err := c.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !c.Accessible("consumption") {
		t.Fatal("consumption should open after profile completes")
	}
	if c.Accessible("outlook") {
		t.Fatal("outlook needs every prior section, not just the first")
	}

	if err := c.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if err := c.GoTo("profile"); err != nil {
		t.Fatalf("GoTo completed section: %v", err)
	}
	if pos, _ := c.Progress(); pos != 1 {
		t.Fatalf("position = %d after GoTo", pos)
	}
}

func TestSubmitOnlyOnLastSection(t *testing.T) {
	c := session.New(threeStepSchema())

	if _, err := c.Submit(); !errors.Is(err, session.ErrNotLastSection) {
		t.Fatalf("Submit = %v, want ErrNotLastSection", err)
	}

	if err := c.SetAnswer("companyName", answers.Scalar("Acme")); err != nil {
		t.Fatalf("set answer: %v", err)
	}
	if err := c.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if err := c.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}

	if _, err := c.Submit(); !errors.Is(err, session.ErrSectionInvalid) {
		t.Fatalf("Submit = %v, want ErrSectionInvalid", err)
	}
	if err := c.SetAnswer("forecast", answers.Scalar("stable")); err != nil {
		t.Fatalf("set answer: %v", err)
	}

	tree, err := c.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if tree.Answer("profile", "companyName") != answers.Scalar("Acme") {
		t.Fatalf("tree missing earlier answers: %#v", tree)
	}
	if !c.Completed("outlook") {
		t.Fatal("submit should complete the final section")
	}
}

func TestSetAnswerRejectsForeignQuestion(t *testing.T) {
	c := session.New(threeStepSchema())

	if err := c.SetAnswer("forecast", answers.Scalar("stable")); err == nil {
		t.Fatal("expected rejection for a question outside the current section")
	}
}
