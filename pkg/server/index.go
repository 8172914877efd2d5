package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>EPUB Diff Checker</title>
<style>
body { font-family: sans-serif; max-width: 700px; margin: 40px auto; padding: 0 20px; }
h1 { color: #1976d2; }
form { background: #f5f5f5; padding: 20px; border-radius: 8px; margin-bottom: 20px; }
label { display: block; margin: 10px 0 4px; font-weight: bold; }
button { margin-top: 15px; padding: 8px 20px; background: #1976d2; color: white; border: none; border-radius: 5px; cursor: pointer; }
</style>
</head>
<body>
<h1>EPUB Diff Checker</h1>
<p>Upload the original and the revised EPUB. The compare endpoint returns the
chapter-by-chapter diff; the novelty endpoint lists paragraphs with new
content.</p>
<form action="/api/compare" method="post" enctype="multipart/form-data">
<label>Original EPUB</label><input type="file" name="old" accept=".epub" required>
<label>Revised EPUB</label><input type="file" name="new" accept=".epub" required>
<button type="submit">Compare</button>
</form>
<form action="/api/novelty" method="post" enctype="multipart/form-data">
<label>Original EPUB</label><input type="file" name="old" accept=".epub" required>
<label>Revised EPUB</label><input type="file" name="new" accept=".epub" required>
<button type="submit">Find new content</button>
</form>
</body>
</html>
`

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}
