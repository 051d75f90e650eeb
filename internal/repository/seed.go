package repository

import (
	"github.com/shopspring/decimal"

	"github.com/frescolabs/storefront-api/internal/model"
)

// SeedProducts returns the built-in catalog used when no remote catalog is
// configured or reachable.
func SeedProducts() []model.Product {
	price := decimal.RequireFromString
	return []model.Product{
		{
			ID: 1, Name: "Manzana Roja", Price: price("4.50"),
			Image: "/images/manzana-roja.jpg", Category: model.CategoryFrutasVerduras,
			Tags:        []model.Tag{model.TagDestacado},
			Description: "Manzanas rojas frescas y crujientes, ideales para la lonchera.",
			Rating:      4.5,
			Reviews: []model.Review{
				{ID: 1, Author: "María", Rating: 5, Comment: "Muy frescas y dulces."},
				{ID: 2, Author: "Jorge", Rating: 4, Comment: "Buen tamaño, llegaron en buen estado."},
			},
		},
		{
			ID: 2, Name: "Plátano de Seda", Price: price("2.80"),
			Image: "/images/platano-seda.jpg", Category: model.CategoryFrutasVerduras,
			Tags:        []model.Tag{model.TagOferta},
			Description: "Plátanos maduros al punto, perfectos para el desayuno.",
			Rating:      5, Reviews: []model.Review{{ID: 3, Author: "Lucía", Rating: 5, Comment: "Siempre compro aquí."}},
		},
		{
			ID: 3, Name: "Leche Entera 1L", Price: price("5.20"),
			Image: "/images/leche-entera.jpg", Category: model.CategoryLacteosHuevos,
			Description: "Leche entera pasteurizada en envase de un litro.",
		},
		{
			ID: 4, Name: "Huevos Pardos x12", Price: price("8.90"),
			Image: "/images/huevos-pardos.jpg", Category: model.CategoryLacteosHuevos,
			Tags:        []model.Tag{model.TagDestacado},
			Description: "Docena de huevos pardos de gallinas de corral.",
			Rating:      4, Reviews: []model.Review{{ID: 4, Author: "Carmen", Rating: 4, Comment: "Frescos, aunque uno llegó rajado."}},
		},
		{
			ID: 5, Name: "Pechuga de Pollo", Price: price("15.90"),
			Image: "/images/pechuga-pollo.jpg", Category: model.CategoryCarnesPescados,
			Description: "Pechuga de pollo fresca por kilo, sin piel.",
		},
		{
			ID: 6, Name: "Filete de Bonito", Price: price("18.50"),
			Image: "/images/filete-bonito.jpg", Category: model.CategoryCarnesPescados,
			Tags:        []model.Tag{model.TagNuevo},
			Description: "Bonito fresco del día, fileteado y listo para cocinar.",
		},
		{
			ID: 7, Name: "Pan Francés x6", Price: price("2.00"),
			Image: "/images/pan-frances.jpg", Category: model.CategoryPanaderia,
			Tags:        []model.Tag{model.TagOferta},
			Description: "Media docena de pan francés recién horneado.",
			Rating:      5, Reviews: []model.Review{{ID: 5, Author: "Pedro", Rating: 5, Comment: "Crocante como debe ser."}},
		},
		{
			ID: 8, Name: "Torta de Chocolate", Price: price("32.00"),
			Image: "/images/torta-chocolate.jpg", Category: model.CategoryPanaderia,
			Tags:        []model.Tag{model.TagDestacado, model.TagNuevo},
			Description: "Torta húmeda de chocolate para 10 porciones.",
		},
		{
			ID: 9, Name: "Arroz Extra 5kg", Price: price("24.90"),
			Image: "/images/arroz-extra.jpg", Category: model.CategoryDespensa,
			Description: "Arroz extra graneado en bolsa de cinco kilos.",
		},
		{
			ID: 10, Name: "Aceite Vegetal 1L", Price: price("9.80"),
			Image: "/images/aceite-vegetal.jpg", Category: model.CategoryDespensa,
			Tags:        []model.Tag{model.TagOferta},
			Description: "Aceite vegetal de soya en botella de un litro.",
			Rating:      3, Reviews: []model.Review{{ID: 6, Author: "Rosa", Rating: 3, Comment: "Cumple, pero la botella es difícil de abrir."}},
		},
	}
}
