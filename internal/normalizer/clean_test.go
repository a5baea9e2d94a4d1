package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONFenced(t *testing.T) {
	assert.Equal(t, `[{"a":1}]`, Clean("json", "```json\n[{\"a\":1}]\n```"))
}

func TestCleanFencedBlockStripsBoilerplate(t *testing.T) {
	raw := "```json\nHere is your data:\n[{\"a\":1}]\nNote that values are random.\n```"
	assert.Equal(t, `[{"a":1}]`, Clean("json", raw))
}

func TestCleanJSONProseWrapped(t *testing.T) {
	assert.Equal(t, `[{"a":1}]`, Clean("json", `Here is your data: [{"a":1}] Hope that helps!`))
}

func TestCleanJSONObject(t *testing.T) {
	assert.Equal(t, `{"users":[{"id":1}]}`, Clean("json", "The generated object:\n{\"users\":[{\"id\":1}]}\nLet me know if you need more."))
}

func TestCleanJSONPrefersLabelledFence(t *testing.T) {
	raw := "```python\nprint('hi')\n```\n\n```json\n[1,2]\n```"
	assert.Equal(t, "[1,2]", Clean("json", raw))
}

func TestCleanJSONUnlabelledFence(t *testing.T) {
	assert.Equal(t, "[1,2]", Clean("json", "Here you go:\n```\n[1,2]\n```"))
}

func TestCleanSQLFenced(t *testing.T) {
	raw := "```sql\nINSERT INTO users (id) VALUES (1);\n```"
	assert.Equal(t, "INSERT INTO users (id) VALUES (1);", Clean("sql", raw))
}

func TestCleanSQLCollectsInserts(t *testing.T) {
	raw := "Here are your statements:\n" +
		"INSERT INTO users (id, name) VALUES (1, 'a');\n" +
		"Some commentary in between.\n" +
		"INSERT INTO users (id, name) VALUES (2, 'b');\n" +
		"Hope that helps!"
	want := "INSERT INTO users (id, name) VALUES (1, 'a');\n" +
		"INSERT INTO users (id, name) VALUES (2, 'b');"
	assert.Equal(t, want, Clean("sql", raw))
}

func TestCleanCSV(t *testing.T) {
	raw := "Here is the CSV data you requested\n" +
		"id,name\n" +
		"1,alice\n" +
		"2,bob\n" +
		"Feel free to adjust the columns."
	assert.Equal(t, "id,name\n1,alice\n2,bob", Clean("csv", raw))
}

func TestCleanCSVFenced(t *testing.T) {
	assert.Equal(t, "id,name\n1,a", Clean("csv", "```csv\nid,name\n1,a\n```"))
}

func TestCleanXML(t *testing.T) {
	raw := "Sure! Here is the XML:\n<users><user id=\"1\"/></users>\nYou can use this directly."
	assert.Equal(t, `<users><user id="1"/></users>`, Clean("xml", raw))
}

func TestCleanHTMLFenced(t *testing.T) {
	assert.Equal(t, "<table></table>", Clean("html", "```html\n<table></table>\n```"))
}

func TestCleanTxtPassthrough(t *testing.T) {
	assert.Equal(t, "plain lines\nof text", Clean("txt", "plain lines\nof text"))
}

func TestCleanTxtStripsBoilerplate(t *testing.T) {
	raw := "Here is the text you asked for:\nalpha\nbeta\nLet me know if you want more."
	assert.Equal(t, "alpha\nbeta", Clean("txt", raw))
}

func TestCleanTotalOnGarbage(t *testing.T) {
	assert.Equal(t, "", Clean("json", ""))
	assert.Equal(t, "no structure at all", Clean("json", "  no structure at all  "))
	assert.Equal(t, "nothing to collect", Clean("sql", "nothing to collect"))
	assert.Equal(t, "unknown format", Clean("yaml", "unknown format"))
}

func TestCleanDeterministic(t *testing.T) {
	raw := "Here is your data: [{\"a\":1}] Hope that helps!"
	first := Clean("json", raw)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Clean("json", raw))
	}
}
