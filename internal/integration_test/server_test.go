package integration

import (
	"encoding/json"
	"net"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/secindex/internal/engine"
	"github.com/leengari/secindex/internal/executor"
	"github.com/leengari/secindex/internal/network"
)

func serve(t *testing.T, eng *engine.Engine) net.Conn {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NilError(t, err)

	srv := network.NewServer(eng)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()
	t.Cleanup(func() {
		assert.Check(t, srv.Close())
		assert.Check(t, <-done)
	})

	conn, err := net.Dial("tcp", ln.Addr().String())
	assert.NilError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// TestServerJSON defines an index from a JSON document over the wire,
// fills it with statements and reads it back after a restart
func TestServerJSON(t *testing.T) {
	dir := t.TempDir()
	conn := serve(t, setupEngine(t, dir))

	encoder := json.NewEncoder(conn)
	decoder := json.NewDecoder(conn)
	send := func(req network.Request) executor.Result {
		t.Helper()
		assert.NilError(t, encoder.Encode(req))
		var res executor.Result
		assert.NilError(t, decoder.Decode(&res))
		return res
	}

	res := send(network.Request{
		Create:     "users",
		Definition: json.RawMessage(`{"properties": [{"name": "username", "type": "string"}, {"name": "age", "type": "int32"}]}`),
	})
	assert.Equal(t, res.Error, "")

	for _, sql := range []string{
		"INSERT INTO users ID 'u1' VALUES ('admin', 40)",
		"INSERT INTO users ID 'u2' VALUES ('guest', 18)",
		"SAVE users",
	} {
		res = send(network.Request{Query: sql})
		assert.Equal(t, res.Error, "", sql)
	}

	res = send(network.Request{Query: "SELECT FROM users WHERE username = 'admin'"})
	assert.DeepEqual(t, res.Rows, [][]string{{"u1", "admin", "40"}})

	res = send(network.Request{Query: "SELECT FROM ghosts"})
	assert.Assert(t, strings.Contains(res.Error, "index not found"), res.Error)

	// a second server over the same data dir sees the saved index
	conn = serve(t, setupEngine(t, dir))
	encoder = json.NewEncoder(conn)
	decoder = json.NewDecoder(conn)
	res = send(network.Request{Query: "COUNT users"})
	assert.DeepEqual(t, res.Rows, [][]string{{"2"}})
}
