// internal/browser/style/useragent.go
package style

// hiddenElementsCSS hides elements that never render. It is always applied,
// even when the presentational defaults are disabled.
const hiddenElementsCSS = `
head, script, style, title, meta, link, base, noscript, template, iframe, object, img, svg, audio, video, canvas {
    display: none;
}
`

// DefaultUserAgentCSS is the presentational default sheet. Lengths are in
// cells, so vertical spacing is kept to one row below a block.
const DefaultUserAgentCSS = `
/* Block level elements */
html, body, div, p, h1, h2, h3, h4, h5, h6, ul, ol, li, dl, dt, dd, form, header, footer,
section, article, nav, main, aside, blockquote, pre, figure, figcaption, address, fieldset,
table, tr, hr, details, summary, center, hgroup, menu, legend {
    display: block;
}

/* Spacing */
p, ul, ol, dl, pre, blockquote, table, figure, fieldset { margin-bottom: 1; }
h1, h2, h3, h4, h5, h6 { margin-bottom: 1; }
ul, ol { padding-left: 2; }
blockquote, dd, figure { margin-left: 2; }
li ul, li ol { margin-bottom: 0; }

/* Typography */
h1, h2, h3, h4, h5, h6, b, strong, th, dt, summary, legend { font-weight: bold; }
h1 { text-align: center; }
u, ins, a { text-decoration: underline; }
a { color: blue; }
mark { background-color: yellow; color: black; }
pre, textarea { white-space: pre; }
center { text-align: center; }

/* Rules and groups */
hr { border-top: 1 solid; margin-bottom: 1; }
fieldset { border: 1 solid; padding: 0 1; }
`
