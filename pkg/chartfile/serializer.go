package chartfile

import (
	"encoding/json"

	"gopkg.in/yaml.v2"
)

// Serializer 定义序列化/反序列化接口,支持扩展不同格式
type Serializer interface {
	Unmarshal(data []byte, v interface{}) error // 反序列化
	GetFileExt() string                         // 获取文件扩展名(如.yml/.json)
	GetName() string                            // 获取格式名称(如yaml/json)
}

// YAMLSerializer YAML格式实现
type YAMLSerializer struct{}

func (y *YAMLSerializer) Unmarshal(data []byte, v interface{}) error {
	return yaml.Unmarshal(data, v)
}

func (y *YAMLSerializer) GetFileExt() string {
	return ".yml"
}

func (y *YAMLSerializer) GetName() string {
	return "yaml"
}

// JSONSerializer JSON格式实现
type JSONSerializer struct{}

func (j *JSONSerializer) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (j *JSONSerializer) GetFileExt() string {
	return ".json"
}

func (j *JSONSerializer) GetName() string {
	return "json"
}
