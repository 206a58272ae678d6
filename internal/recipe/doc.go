// Package recipe loads ingredient lists from YAML or CUE files and turns them
// into the total investment, yield and description of a recipe-mode product.
//
// A recipe file lists every ingredient with its pricing basis:
//
//	name: Brigadeiro
//	yield: 30
//	ingredients:
//	  - name: Leite condensado
//	    pricing: unit
//	    price: 7.50
//	    quantity: 2
//	  - name: Chocolate em pó
//	    pricing: kg      # price per kg, quantity in grams
//	    price: 40
//	    quantity: 50
//
// An empty ingredient list cancels the collection (ErrCanceled); callers
// abort the add or keep the previous recipe fields on edit.
package recipe
