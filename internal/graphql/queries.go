package graphql

// Transaction documents.
const (
	GetTransactionsByUser = `
query GetTransactionsWithCategoriesByUserId($user_id: UUID!) {
  transactionsCollection(filter: { user_id: { eq: $user_id } }) {
    edges {
      node {
        id
        amount
        description
        created_at
        user_id
        type
        categories {
          name
        }
      }
    }
  }
}`

	AddTransaction = `
mutation AddTransactions(
  $amount: String!
  $description: String!
  $created_at: Date
  $user_id: UUID!
  $type: String
  $category_id: UUID
) {
  insertIntoTransactionsCollection(
    objects: [{
      amount: $amount
      description: $description
      created_at: $created_at
      user_id: $user_id
      type: $type
      category_id: $category_id
    }]
  ) {
    affectedCount
    records {
      id
      amount
      description
      created_at
      user_id
      type
      categories {
        name
      }
    }
  }
}`

	UpdateTransactionAmount = `
mutation UpdateTransactions($id: UUID!, $amount: String!) {
  updateTransactionsCollection(
    filter: { id: { eq: $id } }
    set: { amount: $amount }
  ) {
    affectedCount
    records {
      id
      amount
    }
  }
}`

	DeleteTransaction = `
mutation DeleteTransactions($id: UUID!) {
  deleteFromTransactionsCollection(filter: { id: { eq: $id } }) {
    affectedCount
    records {
      id
    }
  }
}`
)

// Category documents.
const (
	GetCategories = `
query GetCategories {
  categoriesCollection {
    edges {
      node {
        id
        name
        type
      }
    }
  }
}`
)

// Savings goal documents.
const (
	GetSavingsGoalsByUser = `
query GetSavingsByUserId($user_id: UUID!) {
  savingsCollection(filter: { user_id: { eq: $user_id } }) {
    edges {
      node {
        id
        created_at
        name
        current_amount
        target_amount
        willing_to_add
        target_date
        category
        is_completed
      }
    }
  }
}`

	AddSavingsGoal = `
mutation AddSavingsGoal(
  $name: String!
  $current_amount: String!
  $target_date: Date
  $target_amount: String
  $willing_to_add: String
  $category: String
  $user_id: UUID!
  $is_completed: Boolean = false
) {
  insertIntoSavingsCollection(
    objects: [{
      name: $name
      current_amount: $current_amount
      target_date: $target_date
      target_amount: $target_amount
      willing_to_add: $willing_to_add
      category: $category
      user_id: $user_id
      is_completed: $is_completed
    }]
  ) {
    affectedCount
    records {
      id
      name
      current_amount
      target_amount
      willing_to_add
      target_date
      category
      is_completed
      created_at
    }
  }
}`

	UpdateSavingsGoalAmount = `
mutation UpdateSavingsGoals($id: UUID!, $amount: String!) {
  updateSavingsCollection(
    filter: { id: { eq: $id } }
    set: { current_amount: $amount }
  ) {
    affectedCount
    records {
      id
      current_amount
    }
  }
}`

	DeleteSavingsGoal = `
mutation DeleteSavingsGoal($id: UUID!) {
  deleteFromSavingsCollection(filter: { id: { eq: $id } }) {
    affectedCount
    records {
      id
    }
  }
}`
)
