package workflow

import (
	"context"
	"fmt"
)

// CheckStatus summarizes a pre-check outcome.
type CheckStatus string

const (
	CheckPass CheckStatus = "pass"
	CheckWarn CheckStatus = "warn"
	CheckFail CheckStatus = "fail"
)

// CheckReport aggregates the findings of all checkers.
type CheckReport struct {
	Status      CheckStatus
	Issues      []string
	Warnings    []string
	Suggestions []string
}

// Checker inspects the gathered review context for consistency problems
// before any prose is written.
type Checker interface {
	Name() string
	Check(wc *Context, report *CheckReport)
}

// PreCheckStage runs consistency checkers over the review result. Issues
// abort the pipeline; warnings and suggestions ride along to the write stage.
type PreCheckStage struct {
	Checkers []Checker
}

func (s *PreCheckStage) Name() string { return "pre-check" }

func (s *PreCheckStage) Run(_ context.Context, wc *Context) error {
	if wc.Review == nil {
		return fmt.Errorf("pre-check requires a review result")
	}

	report := &CheckReport{Status: CheckPass}
	checkers := s.Checkers
	if checkers == nil {
		checkers = defaultCheckers()
	}
	for _, c := range checkers {
		c.Check(wc, report)
	}

	if len(report.Issues) > 0 {
		report.Status = CheckFail
	} else if len(report.Warnings) > 0 {
		report.Status = CheckWarn
	}
	wc.Check = report

	if report.Status == CheckFail {
		return fmt.Errorf("consistency check failed: %s", report.Issues[0])
	}
	return nil
}

func defaultCheckers() []Checker {
	return []Checker{
		chapterGapChecker{},
		staleThreadChecker{},
	}
}

// chapterGapChecker flags writing far ahead of the finished chapters, which
// usually means a mistyped chapter number.
type chapterGapChecker struct{}

func (chapterGapChecker) Name() string { return "chapter-gap" }

func (chapterGapChecker) Check(wc *Context, report *CheckReport) {
	if wc.ChapterNum > wc.Review.NextChapter {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("第%d章之前还有未完成的章节（预期下一章为第%d章）", wc.ChapterNum, wc.Review.NextChapter))
	}
}

// staleThreadChecker suggests picking neglected threads back up.
type staleThreadChecker struct{}

func (staleThreadChecker) Name() string { return "stale-thread" }

func (staleThreadChecker) Check(wc *Context, report *CheckReport) {
	for _, th := range wc.Review.StaleThreads {
		report.Suggestions = append(report.Suggestions,
			fmt.Sprintf("线索 %s 已有多章未推进：%s", th.ID, th.Description))
	}
}
