// Package docs holds the OpenAPI document served at /swagger. It mirrors the
// swag annotations on cmd/server and the HTTP handlers; regenerate with
// swag init -g cmd/server/main.go -o docs after changing them.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/lab/commissions/{id}/settle": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"finance"
				],
				"summary": "Pay out a referral commission",
				"description": "Marks the ledger row paid and records the payout expense. A paid row blocks cancellation of its order.",
				"parameters": [
					{
						"type": "string",
						"description": "Commission ledger row ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/lab/orders": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"lab"
				],
				"summary": "Create a lab order",
				"description": "Prices the selection, deducts consumables and books the referral commission in one transaction",
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Order selection",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.CreateLabOrderRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/lab/orders/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"lab"
				],
				"summary": "Get a lab order with its results",
				"parameters": [
					{
						"type": "string",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/lab/orders/{id}/cancel": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"lab"
				],
				"summary": "Cancel an order",
				"description": "Requires the approval secret. Restocks consumables, drops the unpaid commission, refunds the cash paid and deletes the order.",
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Approval",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.CancelOrderRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/lab/orders/{id}/cancellable": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"lab"
				],
				"summary": "Check whether an order can still be cancelled",
				"parameters": [
					{
						"type": "string",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/lab/orders/{id}/deliver": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"lab"
				],
				"summary": "Mark the report of a completed order as delivered",
				"parameters": [
					{
						"type": "string",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/lab/orders/{id}/reprint": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"lab"
				],
				"summary": "Record a report reprint",
				"parameters": [
					{
						"type": "string",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/lab/orders/{id}/results": {
			"put": {
				"produces": [
					"application/json"
				],
				"tags": [
					"lab"
				],
				"summary": "Save the result sheet of an order",
				"description": "Blank values are ignored. The order completes once every result has a value.",
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Result values",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.SaveResultsRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/lab/orders/{id}/results/edit": {
			"put": {
				"produces": [
					"application/json"
				],
				"tags": [
					"lab"
				],
				"summary": "Edit the results of a completed order",
				"description": "A reason is required once the report was delivered; delivered orders are flagged for reprint.",
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Edited values",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.EditResultsRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/lab/orders/{id}/review": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"lab"
				],
				"summary": "Flag a pending order as under lab review",
				"parameters": [
					{
						"type": "string",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"lab"
				],
				"summary": "Release the lab review flag when no lab work happened",
				"parameters": [
					{
						"type": "string",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/lab/results/{id}": {
			"patch": {
				"produces": [
					"application/json"
				],
				"tags": [
					"lab"
				],
				"summary": "Enter one result value",
				"description": "Classifies the value against the patient's reference range. The order status is left unchanged.",
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Result ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Value",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.EnterResultRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"dto.CancelOrderRequest": {
			"type": "object",
			"properties": {
				"approval_credential": {
					"type": "string"
				}
			},
			"required": [
				"approval_credential"
			]
		},
		"dto.CreateLabOrderRequest": {
			"type": "object",
			"properties": {
				"cash_paid": {
					"type": "number"
				},
				"discount": {
					"type": "number"
				},
				"doctor_id": {
					"type": "string"
				},
				"panel_ids": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"patient_id": {
					"type": "string"
				},
				"test_ids": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			},
			"required": [
				"patient_id"
			]
		},
		"dto.EditResultsRequest": {
			"type": "object",
			"properties": {
				"edit_reason": {
					"type": "string"
				},
				"edited_by": {
					"type": "string"
				},
				"results": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/dto.ResultValueRequest"
					}
				}
			},
			"required": [
				"results"
			]
		},
		"dto.EnterResultRequest": {
			"type": "object",
			"properties": {
				"performed_by": {
					"type": "string"
				},
				"value": {
					"type": "string"
				}
			}
		},
		"dto.ErrorInfo": {
			"type": "object",
			"properties": {
				"category": {
					"type": "string"
				},
				"code": {
					"type": "string"
				},
				"details": {
					"type": "object",
					"additionalProperties": true
				},
				"fields": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/dto.ValidationDetail"
					}
				},
				"message": {
					"type": "string"
				},
				"request_id": {
					"type": "string"
				}
			}
		},
		"dto.Response": {
			"type": "object",
			"properties": {
				"data": {},
				"error": {
					"$ref": "#/definitions/dto.ErrorInfo"
				},
				"success": {
					"type": "boolean"
				}
			}
		},
		"dto.ResultValueRequest": {
			"type": "object",
			"properties": {
				"result_id": {
					"type": "string"
				},
				"value": {
					"type": "string"
				}
			},
			"required": [
				"result_id"
			]
		},
		"dto.SaveResultsRequest": {
			"type": "object",
			"properties": {
				"performed_by": {
					"type": "string"
				},
				"results": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/dto.ResultValueRequest"
					}
				}
			},
			"required": [
				"results"
			]
		},
		"dto.ValidationDetail": {
			"type": "object",
			"properties": {
				"field": {
					"type": "string"
				},
				"message": {
					"type": "string"
				}
			}
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Lab Order API",
	Description:      "Laboratory order lifecycle: ordering, result entry and cancellation",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
