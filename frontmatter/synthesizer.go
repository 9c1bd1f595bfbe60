// Package frontmatter synthesizes the title page, copyright page,
// dedication page, and table-of-contents page ahead of the reflowed
// manuscript body.
package frontmatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/tsawler/bindery/model"
)

// Config holds the inputs for front-matter synthesis. Entries come from
// the classifier and are listed in document order.
type Config struct {
	Title      string
	Author     string
	Dedication string
	Entries    []model.ChapterEntry
}

// Point sizes for synthesized front-matter text.
const (
	titleSize      = 36
	authorSize     = 18
	copyrightSize  = 10
	dedicationSize = 14
	tocTitleSize   = 18
)

// tocFieldInstruction collects level-1 headings with hyperlinks; the
// renderer resolves page numbers at final pagination.
const tocFieldInstruction = ` TOC \o "1-1" \h \z \u `

// Synthesize prepends front matter to the document in fixed order: title
// page, copyright page, dedication page (only when dedication text is
// non-empty), then the table-of-contents page. Each synthesized page ends
// with a forced page break so original body content always starts on a
// fresh page. The synthesizer runs exactly once per pipeline run.
func Synthesize(doc *model.Document, cfg Config) {
	var blocks []*model.Block

	blocks = append(blocks, titlePage(doc.Baseline, cfg)...)
	blocks = append(blocks, copyrightPage(doc.Baseline, cfg)...)
	if strings.TrimSpace(cfg.Dedication) != "" {
		blocks = append(blocks, dedicationPage(doc.Baseline, cfg)...)
	}
	blocks = append(blocks, tocPage(doc.Baseline, cfg.Entries)...)

	doc.Prepend(blocks...)
}

func titlePage(baseline model.StyleBaseline, cfg Config) []*model.Block {
	var blocks []*model.Block

	// Vertical spacers push the title toward the middle of the page.
	blocks = append(blocks, spacers(model.RoleFrontMatterTitle, 8)...)

	blocks = append(blocks, &model.Block{
		Role:  model.RoleFrontMatterTitle,
		Props: centered(),
		Runs: []*model.Run{{
			Text: cfg.Title,
			Font: baseline.HeadingFont,
			Size: titleSize,
			Bold: true,
		}},
	})
	blocks = append(blocks, spacers(model.RoleFrontMatterTitle, 2)...)
	blocks = append(blocks, &model.Block{
		Role:  model.RoleFrontMatterTitle,
		Props: centered(),
		Runs: []*model.Run{{
			Text: cfg.Author,
			Font: baseline.HeadingFont,
			Size: authorSize,
		}},
	})
	blocks = append(blocks, pageBreak(model.RoleFrontMatterTitle))
	return blocks
}

func copyrightPage(baseline model.StyleBaseline, cfg Config) []*model.Block {
	lines := []string{
		fmt.Sprintf("Copyright © %d %s", time.Now().Year(), cfg.Author),
		"",
		"All rights reserved.",
		"",
		"No part of this publication may be reproduced, distributed, or transmitted in any form " +
			"or by any means, including photocopying, recording, or other electronic or mechanical " +
			"methods, without the prior written permission of the publisher, except in the case of " +
			"brief quotations embodied in critical reviews and certain other noncommercial uses " +
			"permitted by copyright law.",
		"",
		cfg.Title,
		"",
		"First Edition",
		"",
		"Printed in the United States of America",
	}

	blocks := spacers(model.RoleFrontMatterCopyright, 6)
	for _, line := range lines {
		b := &model.Block{
			Role:  model.RoleFrontMatterCopyright,
			Props: centered(),
		}
		if line != "" {
			b.Runs = []*model.Run{{
				Text: line,
				Font: baseline.BodyFont,
				Size: copyrightSize,
			}}
		}
		blocks = append(blocks, b)
	}
	blocks = append(blocks, pageBreak(model.RoleFrontMatterCopyright))
	return blocks
}

func dedicationPage(baseline model.StyleBaseline, cfg Config) []*model.Block {
	blocks := spacers(model.RoleFrontMatterDedication, 10)
	blocks = append(blocks, &model.Block{
		Role:  model.RoleFrontMatterDedication,
		Props: centered(),
		Runs: []*model.Run{{
			Text:   cfg.Dedication,
			Font:   baseline.BodyFont,
			Size:   dedicationSize,
			Italic: true,
		}},
	})
	blocks = append(blocks, pageBreak(model.RoleFrontMatterDedication))
	return blocks
}

// tocPage builds the table-of-contents page: a centered title, the TOC
// field, and one dynamic entry per chapter. Entries display the chapter's
// heading text and carry a PAGEREF field targeting the chapter's bookmark;
// the page number is resolved by the renderer, never computed here. Zero
// entries produce a valid page with an empty listing.
func tocPage(baseline model.StyleBaseline, entries []model.ChapterEntry) []*model.Block {
	blocks := []*model.Block{
		{
			Role:  model.RoleTOCPlaceholder,
			Props: centered(),
			Runs: []*model.Run{{
				Text: "Table of Contents",
				Font: baseline.HeadingFont,
				Size: tocTitleSize,
				Bold: true,
			}},
		},
		{Role: model.RoleTOCPlaceholder},
		{
			Role: model.RoleTOCPlaceholder,
			Field: &model.FieldSpec{
				Instruction: tocFieldInstruction,
				Placeholder: "Right-click and select 'Update Field' to generate the table of contents.",
			},
		},
	}

	for _, entry := range entries {
		b := &model.Block{
			Role: model.RoleTOCPlaceholder,
			Runs: []*model.Run{{
				Text: entry.Title + "\t",
				Font: baseline.BodyFont,
				Size: baseline.BodySize,
			}},
		}
		if entry.Block != nil && entry.Block.Anchor != "" {
			b.Field = &model.FieldSpec{
				Instruction: fmt.Sprintf(` PAGEREF %s \h `, entry.Block.Anchor),
			}
		}
		blocks = append(blocks, b)
	}

	blocks = append(blocks, pageBreak(model.RoleTOCPlaceholder))
	return blocks
}

func centered() model.ParagraphProps {
	return model.ParagraphProps{Alignment: model.AlignCenter}
}

func spacers(role model.Role, n int) []*model.Block {
	blocks := make([]*model.Block, n)
	for i := range blocks {
		blocks[i] = &model.Block{Role: role}
	}
	return blocks
}

func pageBreak(role model.Role) *model.Block {
	return &model.Block{
		Role: role,
		Runs: []*model.Run{{Break: model.BreakPage}},
	}
}
