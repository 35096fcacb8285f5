package gateway

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
)

var idConnectionMap = make(map[string]map[WsConn]bool)
var connectionIDMap = make(map[WsConn]string)
var mapLock = sync.Mutex{}

//WsConn is interface for websocket handling in gateway service
type WsConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	WriteJSON(v interface{}) error
}

type joinMsg struct {
	Room string `json:"room"`
}

func handleConnection(conn WsConn) {
	defer deleteConnection(conn)
	defer conn.Close()
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			cmdapp.Log.Debug(err)
			break
		}
		id := parseRoom(message)
		if id != "" {
			saveConnection(conn, id)
		}
	}
	cmdapp.Log.Infof("handleConnection finish")
}

// parseRoom takes room id from a join message.
// JSON {"room": id} is expected, a bare id string is accepted too
func parseRoom(message []byte) string {
	var jm joinMsg
	if err := json.Unmarshal(message, &jm); err == nil && jm.Room != "" {
		return jm.Room
	}
	return strings.TrimSpace(string(message))
}

func deleteConnection(conn WsConn) {
	mapLock.Lock()
	defer mapLock.Unlock()
	deleteConnectionNoSync(conn)
}

func deleteConnectionNoSync(conn WsConn) {
	id, found := connectionIDMap[conn]
	if found {
		conns, found := idConnectionMap[id]
		if found {
			delete(conns, conn)
			if len(conns) == 0 {
				delete(idConnectionMap, id)
			}
		}
	}
	delete(connectionIDMap, conn)
	cmdapp.Log.Infof("deleteConnection finish: %d", len(connectionIDMap))
}

func saveConnection(conn WsConn, id string) {
	mapLock.Lock()
	defer mapLock.Unlock()
	deleteConnectionNoSync(conn)
	connectionIDMap[conn] = id
	conns, found := idConnectionMap[id]
	if !found {
		conns = map[WsConn]bool{}
		idConnectionMap[id] = conns
	}
	conns[conn] = true
	cmdapp.Log.Infof("saveConnection finish: %d", len(connectionIDMap))
}

func getConnections(id string) (map[WsConn]bool, bool) {
	mapLock.Lock()
	defer mapLock.Unlock()
	conns, found := idConnectionMap[id]
	if !found {
		return nil, false
	}
	res := make(map[WsConn]bool, len(conns))
	for c := range conns {
		res[c] = true
	}
	return res, true
}

//notifyConnections pushes payload to all connections joined to the job room
func notifyConnections(id string, payload []byte) {
	conns, found := getConnections(id)
	if !found {
		cmdapp.Log.Infof("No connections for %s", id)
		return
	}
	for c := range conns {
		if err := c.WriteJSON(json.RawMessage(payload)); err != nil {
			cmdapp.Log.Error(err)
			deleteConnection(c)
			_ = c.Close()
		}
	}
}
