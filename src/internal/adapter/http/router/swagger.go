package router

import (
	"fmt"
	"net/http"
)

func registerSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("GET /swagger/{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.HandleFunc("GET /swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Asset Ledger API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Asset Ledger API",
    "version": "1.0.0"
  },
  "components": {
    "parameters": {
      "acc": {"name": "acc", "in": "path", "required": true, "schema": {"type": "integer", "minimum": 1}},
      "asset": {"name": "asset", "in": "path", "required": true, "schema": {"type": "string", "example": "BTC"}},
      "start": {"name": "start", "in": "path", "required": true, "description": "RFC3339 or unix seconds", "schema": {"type": "string"}},
      "end": {"name": "end", "in": "path", "required": true, "description": "RFC3339 or unix seconds", "schema": {"type": "string"}}
    }
  },
  "paths": {
    "/health": {
      "get": {
        "summary": "Liveness check",
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/accounts": {
      "post": {
        "summary": "Open account",
        "requestBody": {
          "required": false,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {
                  "accountNo": {"type": "integer", "minimum": 1}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "Created"},
          "400": {"description": "Validation error"},
          "409": {"description": "Account already exists"},
          "503": {"description": "Store unavailable"}
        }
      },
      "get": {
        "summary": "List accounts",
        "responses": {"200": {"description": "Accounts fetched"}}
      }
    },
    "/account": {
      "patch": {
        "summary": "Exchange between accounts and assets",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["src_acc_no", "dest_acc_no", "src_asset_type", "dest_asset_type", "transfer_amt"],
                "properties": {
                  "src_acc_no": {"type": "integer"},
                  "dest_acc_no": {"type": "integer"},
                  "src_asset_type": {"type": "string", "example": "USD"},
                  "dest_asset_type": {"type": "string", "example": "BTC"},
                  "transfer_amt": {"oneOf": [{"type": "number"}, {"type": "string"}], "example": 100}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Exchanged"},
          "400": {"description": "Validation error"},
          "404": {"description": "Account not found"},
          "422": {"description": "Insufficient balance"},
          "502": {"description": "Rate unavailable"},
          "503": {"description": "Store unavailable"}
        }
      }
    },
    "/account/{acc}": {
      "parameters": [{"$ref": "#/components/parameters/acc"}],
      "get": {
        "summary": "Current balances of all assets",
        "responses": {
          "200": {"description": "Balances fetched"},
          "404": {"description": "Account not found"}
        }
      },
      "post": {
        "summary": "Deposit",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["asset_type", "deposit_amt"],
                "properties": {
                  "asset_type": {"type": "string", "example": "BTC"},
                  "deposit_amt": {"oneOf": [{"type": "number"}, {"type": "string"}], "example": 2.5}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Deposited"},
          "400": {"description": "Validation error"},
          "404": {"description": "Account not found"}
        }
      },
      "put": {
        "summary": "Withdraw",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["asset_type", "withdrawal_amt"],
                "properties": {
                  "asset_type": {"type": "string", "example": "BTC"},
                  "withdrawal_amt": {"oneOf": [{"type": "number"}, {"type": "string"}], "example": 1.0}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Withdrawn"},
          "400": {"description": "Validation error"},
          "404": {"description": "Account not found"},
          "422": {"description": "Insufficient balance"}
        }
      }
    },
    "/account/{acc}/{asset}": {
      "parameters": [{"$ref": "#/components/parameters/acc"}, {"$ref": "#/components/parameters/asset"}],
      "get": {
        "summary": "Current balance of one asset",
        "responses": {"200": {"description": "Balance fetched"}}
      }
    },
    "/account/{acc}/{start}/{end}": {
      "parameters": [
        {"$ref": "#/components/parameters/acc"},
        {"$ref": "#/components/parameters/start"},
        {"$ref": "#/components/parameters/end"}
      ],
      "get": {
        "summary": "Net change per asset inside the window",
        "responses": {"200": {"description": "Deltas fetched"}}
      }
    },
    "/account/{acc}/{asset}/{start}/{end}": {
      "parameters": [
        {"$ref": "#/components/parameters/acc"},
        {"$ref": "#/components/parameters/asset"},
        {"$ref": "#/components/parameters/start"},
        {"$ref": "#/components/parameters/end"}
      ],
      "get": {
        "summary": "Net change of one asset inside the window",
        "responses": {"200": {"description": "Delta fetched"}}
      }
    },
    "/account/{acc}/transactions": {
      "parameters": [
        {"$ref": "#/components/parameters/acc"},
        {"name": "asset", "in": "query", "required": false, "schema": {"type": "string"}}
      ],
      "get": {
        "summary": "Transaction history, oldest first",
        "responses": {"200": {"description": "Transactions fetched"}}
      }
    },
    "/rates": {
      "get": {
        "summary": "Local rate sheet",
        "responses": {"200": {"description": "Rates fetched"}}
      }
    },
    "/rate": {
      "get": {
        "summary": "Current price of a pair",
        "parameters": [
          {"name": "from", "in": "query", "required": true, "schema": {"type": "string", "example": "USD"}},
          {"name": "to", "in": "query", "required": true, "schema": {"type": "string", "example": "BTC"}}
        ],
        "responses": {
          "200": {"description": "Rate fetched"},
          "502": {"description": "Rate unavailable"}
        }
      }
    },
    "/quote": {
      "post": {
        "summary": "Convert an amount without touching the ledger",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["amount", "fromCcy", "toCcy"],
                "properties": {
                  "amount": {"type": "string", "example": "100"},
                  "fromCcy": {"type": "string", "example": "USD"},
                  "toCcy": {"type": "string", "example": "BTC"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Quote computed"},
          "400": {"description": "Validation error"},
          "502": {"description": "Rate unavailable"}
        }
      }
    }
  }
}`
