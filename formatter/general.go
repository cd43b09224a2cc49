package formatter

// GeneralIssueFormatter underlines the offending span, which is how
// syntax errors are shown.
type GeneralIssueFormatter struct{}

func (f *GeneralIssueFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{suggestion .Suggestion .Padding -}}
{{note .Note}}
`
}

// TransformIssueFormatter is used when a transform rejected an otherwise
// valid formula; the header names the transform.
type TransformIssueFormatter struct{}

func (f *TransformIssueFormatter) IssueTemplate() string {
	return `{{transformHeader .Rule .Category .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{note .Note}}
`
}
