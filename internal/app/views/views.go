package views

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// FuncMap 模板可用的辅助函数
var FuncMap = template.FuncMap{
	"idstr": func(id uint) string { return strconv.FormatUint(uint64(id), 10) },
}

// Templates 解析全部内嵌模板
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap).ParseFS(templateFS, "templates/*.html")
}

// MustTemplates 解析失败时 panic，模板随二进制发布，失败即为构建错误
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// Static 返回静态资源文件系统
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
