package server

// previewMarkdown exercises every element a theme styles.
const previewMarkdown = "# Sample Document\n" +
	"\n" +
	"This is a **sample document** to preview the theme styling.\n" +
	"\n" +
	"## Features\n" +
	"\n" +
	"- Beautiful typography\n" +
	"- Responsive design  \n" +
	"- Modern styling\n" +
	"- Code highlighting\n" +
	"\n" +
	"### Code Example\n" +
	"\n" +
	"```python\n" +
	"def hello_world():\n" +
	"    print(\"Hello, World!\")\n" +
	"```\n" +
	"\n" +
	"### Blockquote\n" +
	"\n" +
	"> This is a blockquote example to show how quotes are styled in this theme.\n" +
	"\n" +
	"### Table\n" +
	"\n" +
	"| Feature | Description |\n" +
	"|---------|-------------|\n" +
	"| Fast | Lightning quick conversion |\n" +
	"| Modern | Contemporary design trends |\n" +
	"| Responsive | Works on all devices |\n" +
	"\n" +
	"---\n" +
	"\n" +
	"*This is italic text* and this is `inline code`.\n"
