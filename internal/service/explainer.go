package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/user/cinematch/internal/model"
)

// 上下文窗口只取前 3 条命中，控制提示词长度和生成成本
const explainContextSize = 3

// FallbackExplanation 生成失败时的兜底文案，检索结果照常返回
const FallbackExplanation = "I found these movies, but my brain is a bit tired to explain them right now!"

// Explainer 推荐理由生成器：基于检索命中构造受限提示词，调用 LLM 产出短评
type Explainer struct {
	llm Summarizer
}

// NewExplainer 创建生成器
func NewExplainer(llm Summarizer) *Explainer {
	return &Explainer{llm: llm}
}

// Explain 为检索结果生成 2-3 句推荐理由
// 提示词限定只能使用给到的上下文，生成失败时返回兜底文案而不是报错
func (e *Explainer) Explain(query string, hits []model.MovieHit) string {
	var context strings.Builder
	for i, hit := range hits {
		if i >= explainContextSize {
			break
		}
		fmt.Fprintf(&context, "Movie %d: %s\nPlot: %s\n\n", i+1, hit.Title, hit.Overview)
	}

	prompt := fmt.Sprintf(`You are an enthusiastic movie expert. The user asked for: "%s".

Here are the best matches from our database:
%s
Based ONLY on these movies, recommend the best one and explain why it fits their request.
Keep it short (2-3 sentences) and exciting.`, query, context.String())

	text, err := e.llm.Generate(prompt)
	if err != nil {
		log.Printf("[Explainer] 生成推荐理由失败，返回兜底文案: %v", err)
		return FallbackExplanation
	}
	return text
}
