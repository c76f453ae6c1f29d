package service

import "fmt"

func roadmapPrompt(topic string) string {
	return fmt.Sprintf(`You are a rigorous academic historian specializing in AI.
Map the technical evolution of: "%s".

Rules:
1. Start with the seminal paper that introduced or heavily influenced this topic.
2. Identify 3-4 key follow-up papers.
3. Node type is one of: seminal, improvement, refutation, application.
4. Edge relation is one of: inheritance, refutation, optimization, application.
5. Every edge source and target must be the id of a node.

Return JSON matching the schema.`, topic)
}

func enrichPrompt(tier, paperText, structure string) string {
	return fmt.Sprintf(`Create explanation cards for the layers of a deep learning model.
User persona: %s.
Paper text: %s
Model structure: %s

Return one entry in enriched_layers per layer id of the structure.
paper_citation must be a direct quote from the paper text.`, tier, paperText, structure)
}

func ablationPrompt(nodeName, nodeType, paperContext string) string {
	return fmt.Sprintf(`User wants to disable the layer '%s' (%s) from a deep learning model.
Based on general deep learning theory (or the paper context if provided: %s),
predict the consequence.

1. Performance impact: estimate accuracy drop or loss increase.
2. Theoretical consequence: e.g. vanishing gradients, dimension mismatch, loss of nonlinearity.

Return JSON.`, nodeName, nodeType, paperContext)
}

func quizPrompt(nodeName, concept, tier string) string {
	return fmt.Sprintf(`Create a multiple-choice question about '%s' (%s).
Target audience: %s.

If tourist: simple analogy.
If expert: math or implementation details.

correct_index is the zero-based index of the right answer in options.
Return JSON.`, nodeName, concept, tier)
}

func modelQueryPrompt(query string) string {
	return fmt.Sprintf(`Generate a structural visualization JSON for the deep learning model: "%s".

Rules:
1. mode is always "standard".
2. topics: the core technical fields (e.g. "Computer Vision", "LLM", "RL").
3. Layers: use TransformerBlock for transformers; Convolution, Pooling and GenericBlock for CNNs; GenericBlock otherwise.
4. Structure: Input -> Embedding/Backbone -> Core blocks -> Head/Output.
5. Fill explanation_card.paper_citation with likely excerpts from the original paper.`, query)
}

func diagramAnalysisPrompt(paperText string) string {
	return fmt.Sprintf(`The attached image is the main architecture diagram of a research paper.
Read the paper name of the model and its parameter count if stated ("Custom" otherwise),
3-5 research keywords, and split the diagram into blueprint modules.

For each module give box_2d as [x, y, w, h] in percent (0-100) of the image,
type as one of Backbone, Head, Loss, Input or Generic, and next as the ids of the modules it feeds.

Paper text (excerpt): %s`, paperText)
}

func documentLayersPrompt(paperText string) string {
	return fmt.Sprintf(`Analyze this research paper text and describe the architecture it proposes.

Goal 1: identify 3-5 specific technical topics and put them in topics.
Goal 2: map the model components to a sequential list of layers, named as in the paper.
Use TransformerBlock for transformers, Convolution for CNN layers and GenericBlock for specific modules.
Goal 3: fill explanation_card with explanations and direct quotes from the paper in paper_citation.
mode is "standard".

Paper text (excerpt): %s`, paperText)
}
