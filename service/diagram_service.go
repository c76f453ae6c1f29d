package service

import (
	"context"
	"fmt"

	"github.com/tieubaoca/prism-be/logger"
	"github.com/tieubaoca/prism-be/schema"
	"github.com/tieubaoca/prism-be/types"
)

const classifyDiagramInstruction = `You are given the largest images embedded in a research paper.
Identify which image is the "Main Model Architecture" diagram, the figure that shows the overall structure of the proposed model.
Images are numbered from 0 in the order they are attached.
Return JSON {"index": int}.`

type diagramChoice struct {
	Index int `json:"index"`
}

// SelectDiagram asks the backend which candidate is the main architecture
// diagram. It never fails: when the backend errors, answers with something
// unparsable or names an index outside the candidate list, the first (and
// largest) candidate is returned with Fallback set and the cause in Err.
// An empty candidate list yields no selection without calling the backend.
func SelectDiagram(ctx context.Context, ai AIService, candidates []types.PageImage, log *logger.Logger) types.Selection {
	if len(candidates) == 0 {
		return types.Selection{Index: -1}
	}
	if log == nil {
		log = logger.Nop()
	}

	idx, err := classifyDiagram(ctx, ai, candidates)
	if err != nil {
		log.Warn("Diagram classification failed, using largest image", "candidates", len(candidates), "error", err)
		selection := SelectLargest(candidates)
		selection.Err = err
		return selection
	}

	chosen := candidates[idx]
	log.Debug("Diagram selected", "index", idx, "size", chosen.Size, "page", chosen.PageNum)
	return types.Selection{Image: &chosen, Index: idx}
}

// SelectLargest picks the first candidate, which is the largest after
// ranking, without asking the backend.
func SelectLargest(candidates []types.PageImage) types.Selection {
	if len(candidates) == 0 {
		return types.Selection{Index: -1}
	}
	first := candidates[0]
	return types.Selection{Image: &first, Index: 0, Fallback: true}
}

func classifyDiagram(ctx context.Context, ai AIService, candidates []types.PageImage) (idx int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = types.ClassificationError("backend panicked", fmt.Errorf("%v", r))
		}
	}()

	raw, err := ai.GenerateJSON(ctx, GenerateRequest{
		Name:        "diagram_index",
		Instruction: classifyDiagramInstruction,
		Images:      candidates,
		Schema:      types.DiagramIndexShape,
	})
	if err != nil {
		return 0, types.ClassificationError("classification call failed", err)
	}

	choice, err := schema.Decode[diagramChoice](raw, types.DiagramIndexShape)
	if err != nil {
		return 0, types.ClassificationError("invalid classification response", err)
	}
	if choice.Index < 0 || choice.Index >= len(candidates) {
		return 0, types.ClassificationError(
			fmt.Sprintf("index %d out of range for %d candidates", choice.Index, len(candidates)), nil)
	}
	return choice.Index, nil
}
