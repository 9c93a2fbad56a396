package language

// builtinLanguages 返回全部内置语言描述。
// 声明序决定标记匹配顺序，块标记在前的先被尝试。
func builtinLanguages() []Language {
	cBlock := []BlockMarker{{Start: "/*", End: "*/"}}
	nestedBlock := []BlockMarker{{Start: "/*", End: "*/", Nested: true}}

	return []Language{
		{
			Name:       "Rust",
			Extensions: []string{"rs"},
			Syntax: CommentSyntax{
				LineMarkers:  []string{"///", "//!", "//"},
				BlockMarkers: nestedBlock,
				DoubleQuote:  true,
				SingleQuote:  SingleQuoteChar,
				RawStrings:   true,
			},
		},
		{
			Name:       "C",
			Extensions: []string{"c", "h"},
			Syntax: CommentSyntax{
				LineMarkers:  []string{"//"},
				BlockMarkers: cBlock,
				DoubleQuote:  true,
				SingleQuote:  SingleQuoteChar,
			},
		},
		{
			Name:       "C++",
			Extensions: []string{"cpp", "hpp", "cc", "cxx", "hxx"},
			Syntax: CommentSyntax{
				LineMarkers:  []string{"//"},
				BlockMarkers: cBlock,
				DoubleQuote:  true,
				SingleQuote:  SingleQuoteChar,
			},
		},
		{
			Name:       "Go",
			Extensions: []string{"go"},
			Syntax: CommentSyntax{
				LineMarkers:  []string{"//"},
				BlockMarkers: cBlock,
				DoubleQuote:  true,
				SingleQuote:  SingleQuoteChar,
				Backtick:     true,
			},
		},
		{
			Name:       "Python",
			Extensions: []string{"py", "pyi"},
			Syntax: CommentSyntax{
				LineMarkers: []string{"#"},
				BlockMarkers: []BlockMarker{
					{Start: `"""`, End: `"""`},
					{Start: "'''", End: "'''"},
				},
				DoubleQuote: true,
				SingleQuote: SingleQuoteString,
			},
		},
		{
			Name:       "JavaScript",
			Extensions: []string{"js", "mjs", "cjs", "jsx"},
			Syntax: CommentSyntax{
				LineMarkers:  []string{"//"},
				BlockMarkers: cBlock,
				DoubleQuote:  true,
				SingleQuote:  SingleQuoteString,
				Backtick:     true,
			},
		},
		{
			Name:       "TypeScript",
			Extensions: []string{"ts", "mts", "cts", "tsx"},
			Syntax: CommentSyntax{
				LineMarkers:  []string{"//"},
				BlockMarkers: cBlock,
				DoubleQuote:  true,
				SingleQuote:  SingleQuoteString,
				Backtick:     true,
			},
		},
		{
			Name:       "Java",
			Extensions: []string{"java"},
			Syntax: CommentSyntax{
				LineMarkers:  []string{"//"},
				BlockMarkers: cBlock,
				DoubleQuote:  true,
				SingleQuote:  SingleQuoteChar,
			},
		},
		{
			Name:       "Kotlin",
			Extensions: []string{"kt", "kts"},
			Syntax: CommentSyntax{
				LineMarkers:  []string{"//"},
				BlockMarkers: nestedBlock,
				DoubleQuote:  true,
				SingleQuote:  SingleQuoteChar,
			},
		},
		{
			Name:       "Swift",
			Extensions: []string{"swift"},
			Syntax: CommentSyntax{
				LineMarkers:  []string{"//"},
				BlockMarkers: nestedBlock,
				DoubleQuote:  true,
			},
		},
		{
			Name:       "Ruby",
			Extensions: []string{"rb", "rake"},
			Syntax: CommentSyntax{
				LineMarkers: []string{"#"},
				BlockMarkers: []BlockMarker{
					{Start: "=begin", End: "=end", AtLineStart: true},
				},
				DoubleQuote: true,
				SingleQuote: SingleQuoteString,
			},
		},
		{
			Name:       "Lua",
			Extensions: []string{"lua"},
			Syntax: CommentSyntax{
				LineMarkers: []string{"--"},
				BlockMarkers: []BlockMarker{
					{Start: "--[[", End: "]]"},
				},
				DoubleQuote: true,
				SingleQuote: SingleQuoteString,
			},
		},
		{
			Name:       "PHP",
			Extensions: []string{"php"},
			Syntax: CommentSyntax{
				LineMarkers:  []string{"//", "#"},
				BlockMarkers: cBlock,
				DoubleQuote:  true,
				SingleQuote:  SingleQuoteString,
			},
		},
		{
			Name:       "Shell",
			Extensions: []string{"sh", "bash", "zsh"},
			Syntax: CommentSyntax{
				LineMarkers: []string{"#"},
				DoubleQuote: true,
				SingleQuote: SingleQuoteString,
			},
		},
		{
			Name:       "SQL",
			Extensions: []string{"sql"},
			Syntax: CommentSyntax{
				LineMarkers:  []string{"--"},
				BlockMarkers: nestedBlock,
				DoubleQuote:  true,
				SingleQuote:  SingleQuoteString,
			},
		},
		{
			Name:       "HTML",
			Extensions: []string{"html", "htm"},
			Syntax: CommentSyntax{
				BlockMarkers: []BlockMarker{
					{Start: "<!--", End: "-->"},
				},
				DoubleQuote: true,
				SingleQuote: SingleQuoteString,
			},
		},
		{
			Name:       "CSS",
			Extensions: []string{"css", "scss", "less"},
			Syntax: CommentSyntax{
				BlockMarkers: cBlock,
				DoubleQuote:  true,
				SingleQuote:  SingleQuoteString,
			},
		},
		{
			Name:       "YAML",
			Extensions: []string{"yaml", "yml"},
			Syntax: CommentSyntax{
				LineMarkers: []string{"#"},
				DoubleQuote: true,
				SingleQuote: SingleQuoteString,
			},
		},
		{
			Name:       "TOML",
			Extensions: []string{"toml"},
			Syntax: CommentSyntax{
				LineMarkers: []string{"#"},
				DoubleQuote: true,
				SingleQuote: SingleQuoteString,
			},
		},
		{
			Name:       "Markdown",
			Extensions: []string{"md", "markdown"},
			Syntax: CommentSyntax{
				BlockMarkers: []BlockMarker{
					{Start: "<!--", End: "-->"},
				},
			},
		},
	}
}
