package concept

import "strings"

const fence = "```"

type mode int

const (
	modePlain mode = iota
	modeCode
	modeAdditional
)

// scanState carries the accumulators of a single Parse call.
type scanState struct {
	mode   mode
	resume mode // accumulation mode to return to when a fence closes

	text       []string
	code       []string
	additional []string
	language   string

	out ParsedConcept
}

// Parse splits raw concept content into ordered content blocks, promotes
// the first closed code fence to the concept's code example and renders
// the "Additional Information" tail separately.
//
// A fence still open at the end of input is dropped.
func Parse(raw string) ParsedConcept {
	st := &scanState{
		mode:   modePlain,
		resume: modePlain,
		out:    ParsedConcept{Blocks: []ContentBlock{}},
	}
	if raw == "" {
		return st.out
	}
	for _, line := range strings.Split(raw, "\n") {
		st.feed(strings.TrimSuffix(line, "\r"))
	}
	st.flushText()
	if len(st.additional) > 0 {
		st.out.AdditionalInfo = RenderFragment(strings.Join(st.additional, "\n"))
	}
	return st.out
}

func (st *scanState) feed(line string) {
	if strings.HasPrefix(line, fence) {
		if st.mode == modeCode {
			st.closeFence()
		} else {
			st.openFence(line)
		}
		return
	}

	if st.mode != modeCode && strings.HasPrefix(line, AdditionalInfoMarker) {
		if st.mode == modePlain {
			st.flushText()
			st.mode = modeAdditional
		}
		return
	}

	switch st.mode {
	case modeCode:
		st.code = append(st.code, line)
	case modeAdditional:
		st.additional = append(st.additional, line)
	default:
		st.text = append(st.text, line)
	}
}

func (st *scanState) openFence(line string) {
	st.flushText()
	st.resume = st.mode
	st.mode = modeCode
	st.language = strings.TrimSpace(strings.TrimPrefix(line, fence))
	st.code = st.code[:0]
}

func (st *scanState) closeFence() {
	code := strings.Join(st.code, "\n")
	st.out.Blocks = append(st.out.Blocks, ContentBlock{
		Kind:     KindCode,
		Content:  code,
		Language: st.language,
		Title:    CodeBlockTitle,
	})
	if st.out.CodeExample == nil {
		st.out.CodeExample = &CodeExample{
			Language:        st.language,
			Title:           CodeBlockTitle,
			Code:            code,
			ShowLineNumbers: true,
		}
	}
	st.mode = st.resume
	st.code = st.code[:0]
}

// flushText emits the pending plain-text lines as one text block.
func (st *scanState) flushText() {
	if len(st.text) == 0 {
		return
	}
	html := RenderFragment(strings.Join(st.text, "\n"))
	st.text = st.text[:0]
	if html == "" {
		return
	}
	st.out.Blocks = append(st.out.Blocks, ContentBlock{Kind: KindText, Content: html})
}
