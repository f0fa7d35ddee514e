package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type apiDocOperation struct {
	Summary   string              `json:"summary"`
	Responses map[string]apiDocRS `json:"responses"`
}

type apiDocRS struct {
	Description string `json:"description"`
}

func op(summary string, responses ...string) apiDocOperation {
	o := apiDocOperation{Summary: summary, Responses: map[string]apiDocRS{}}
	for i := 0; i+1 < len(responses); i += 2 {
		o.Responses[responses[i]] = apiDocRS{Description: responses[i+1]}
	}
	return o
}

// openAPIDocument describes the API for documentation tooling. It carries no
// behaviour.
func openAPIDocument(gatewayURL string) gin.H {
	return gin.H{
		"openapi": "3.0.1",
		"info": gin.H{
			"title":       "API de Ventas - Perfunlandia",
			"description": "API REST para gestión de ventas con soporte HATEOAS",
			"version":     "1.0.0",
			"contact": gin.H{
				"name":  "Equipo de Desarrollo",
				"email": "desarrollo@perfunlandia.com",
				"url":   "https://perfunlandia.com",
			},
			"license": gin.H{
				"name": "MIT License",
				"url":  "https://opensource.org/licenses/MIT",
			},
		},
		"servers": []gin.H{
			{"url": "http://localhost:8181", "description": "Servidor local de desarrollo"},
			{"url": gatewayURL, "description": "API Gateway"},
		},
		"tags": []gin.H{{"name": "Ventas", "description": "API para gestión de ventas"}},
		"paths": gin.H{
			"/ventas": gin.H{
				"get":  op("Listar todas las ventas", "200", "Ventas encontradas", "204", "No hay ventas"),
				"post": op("Crear nueva venta", "201", "Venta creada exitosamente", "400", "Datos de venta inválidos"),
			},
			"/ventas/{id}": gin.H{
				"get":    op("Obtener venta por ID", "200", "Venta encontrada", "404", "Venta no encontrada"),
				"delete": op("Eliminar venta", "200", "Venta eliminada exitosamente", "404", "Venta no encontrada"),
			},
			"/ventas/stats": gin.H{
				"get": op("Obtener estadísticas de ventas", "200", "Estadísticas obtenidas"),
			},
			"/ventas/cliente/{idCliente}": gin.H{
				"get": op("Buscar ventas por cliente", "200", "Ventas del cliente encontradas", "204", "No hay ventas para este cliente"),
			},
			"/ventas/{id}/con-detalles": gin.H{
				"get": op("Obtener venta con detalles", "200", "Venta con detalles encontrada", "404", "Venta no encontrada"),
			},
			"/ventas/stats/completas": gin.H{
				"get": op("Obtener estadísticas completas", "200", "Estadísticas completas obtenidas"),
			},
			"/ventas/productos/mas-vendidos": gin.H{
				"get": op("Obtener productos más vendidos", "200", "Productos más vendidos obtenidos"),
			},
		},
	}
}

func apiDocsHandler(gatewayURL string) gin.HandlerFunc {
	doc := openAPIDocument(gatewayURL)
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, doc)
	}
}
