package workflow

import (
	"context"
	"fmt"
	"strings"
)

// Generator produces chapter prose from a writing brief. Implementations
// typically call out to a language model.
type Generator func(ctx context.Context, prompt string) (string, error)

// maxOutlineRunes bounds how much of the outline goes into the brief.
const maxOutlineRunes = 500

// WriteStage turns the review context into chapter content. Without a
// generator the brief itself becomes the content, as a draft for the author
// to replace.
type WriteStage struct {
	Generate Generator
}

func (s *WriteStage) Name() string { return "write" }

func (s *WriteStage) Run(ctx context.Context, wc *Context) error {
	if wc.Review == nil {
		return fmt.Errorf("write requires a review result")
	}

	prompt := BuildPrompt(wc)
	if s.Generate == nil {
		wc.Content = prompt
		return nil
	}

	content, err := s.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("generating chapter: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("generator returned empty content")
	}
	wc.Content = content
	return nil
}

// BuildPrompt assembles the writing brief for a chapter.
func BuildPrompt(wc *Context) string {
	var b strings.Builder
	r := wc.Review

	title := wc.ChapterTitle
	if title == "" {
		title = fmt.Sprintf("第%d章", wc.ChapterNum)
	}
	fmt.Fprintf(&b, "# 写作任务：第%d章 %s\n\n", wc.ChapterNum, title)

	if wc.Config != nil && wc.Config.Writing.TargetWords > 0 {
		fmt.Fprintf(&b, "目标字数：约%d字（%d-%d字之间）\n\n",
			wc.Config.Writing.TargetWords,
			wc.Config.Writing.MinWords,
			wc.Config.Writing.MaxWords)
	}

	if r.Outline != "" {
		b.WriteString("## 故事大纲（节选）\n\n")
		b.WriteString(truncateRunes(r.Outline, maxOutlineRunes))
		b.WriteString("\n\n")
	}

	if len(r.Recent) > 0 {
		b.WriteString("## 前情回顾\n\n")
		recent := r.Recent
		if len(recent) > 2 {
			recent = recent[len(recent)-2:]
		}
		for _, sum := range recent {
			fmt.Fprintf(&b, "- 第%d章《%s》：%s\n", sum.ChapterNum, sum.Title, sum.ContentSummary)
		}
		b.WriteString("\n")
	}

	if len(r.Characters) > 0 {
		b.WriteString("## 主要角色\n\n")
		for _, c := range r.Characters {
			fmt.Fprintf(&b, "- **%s**：%s\n", c.Name, c.Description)
		}
		b.WriteString("\n")
	}

	if len(r.StaleThreads) > 0 {
		b.WriteString("## 待推进线索\n\n")
		for _, th := range r.StaleThreads {
			fmt.Fprintf(&b, "- [%s] %s（上次出现于第%d章）\n", th.Priority, th.Description, th.LastChapter)
		}
		b.WriteString("\n")
	}

	if wc.Check != nil {
		for _, s := range wc.Check.Suggestions {
			fmt.Fprintf(&b, "> 建议：%s\n", s)
		}
	}

	return b.String()
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
