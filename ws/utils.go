package ws

import (
	"net/http"
	"reflect"
	"strconv"

	"startup-tycoon/dto"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// 将 HTTP 请求升级为 WebSocket 连接
func upgradeConnection(c *gin.Context) (*websocket.Conn, error) {
	return upgrader.Upgrade(c.Writer, c.Request, nil)
}

// 前端有时把下标当字符串发过来
func stringToIntHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
		if from == reflect.String && to == reflect.Int {
			return strconv.Atoi(data.(string))
		}
		return data, nil
	}
}

// decodeClientMessage 把 JSON 解出来的 map 转成结构体，数字是 float64，需要弱类型转换
func decodeClientMessage(msgMap map[string]interface{}) (dto.ClientMessage, error) {
	var msg dto.ClientMessage
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringToIntHookFunc(),
		WeaklyTypedInput: true,
		Result:           &msg,
	})
	if err != nil {
		return msg, err
	}
	if err := decoder.Decode(msgMap); err != nil {
		return msg, err
	}
	return msg, nil
}
