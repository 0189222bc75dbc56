package audit

import "context"

// Analyzer produces an AnalysisResult for a handle. The local implementation
// never fails; remote ones fail only with *AnalysisError.
type Analyzer interface {
	Analyze(ctx context.Context, input string, platform Platform, lang Language) (AnalysisResult, error)
}

// AnalyzerFunc adapts a plain function to Analyzer.
type AnalyzerFunc func(ctx context.Context, input string, platform Platform, lang Language) (AnalysisResult, error)

func (f AnalyzerFunc) Analyze(ctx context.Context, input string, platform Platform, lang Language) (AnalysisResult, error) {
	return f(ctx, input, platform, lang)
}
